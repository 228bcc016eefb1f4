package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookieName = "poolsmart_session"
	sessionTTL        = 12 * time.Hour
)

type authService struct {
	db     *sql.DB
	secret []byte
	now    func() time.Time
}

func newAuthService(db *sql.DB, sessionSecret string) *authService {
	return &authService{db: db, secret: []byte(sessionSecret), now: time.Now}
}

// validateCredentials compares the password against the stored bcrypt hash.
// Unknown emails and wrong passwords both report false without an error.
func (a *authService) validateCredentials(email, password string) (bool, error) {
	var hash string
	err := a.db.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, strings.TrimSpace(email)).Scan(&hash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("query user credentials: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("compare password hash: %w", err)
	}
	return true, nil
}

func (a *authService) sign(payload string) []byte {
	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// createSessionValue encodes "<email>|<issued unix>" and appends its HMAC.
func (a *authService) createSessionValue(email string) string {
	raw := email + "|" + strconv.FormatInt(a.now().Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString([]byte(raw))
	return payload + "." + hex.EncodeToString(a.sign(payload))
}

// verifySessionValue returns the session email when the signature matches
// and the session is younger than sessionTTL.
func (a *authService) verifySessionValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(provided, a.sign(payload)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	email, issued, ok := strings.Cut(string(decoded), "|")
	if !ok || email == "" {
		return "", false
	}
	unix, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return "", false
	}
	if a.now().Sub(time.Unix(unix, 0)) > sessionTTL {
		return "", false
	}
	return email, true
}

func (a *authService) setSessionCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.createSessionValue(email),
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
