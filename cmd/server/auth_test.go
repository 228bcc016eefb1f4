package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionValueRoundTrip(t *testing.T) {
	a := newAuthService(nil, "secret")
	value := a.createSessionValue("admin@poolsmart.com")

	email, ok := a.verifySessionValue(value)
	assert.True(t, ok)
	assert.Equal(t, "admin@poolsmart.com", email)
}

func TestSessionValueRejectsTampering(t *testing.T) {
	a := newAuthService(nil, "secret")
	value := a.createSessionValue("admin@poolsmart.com")

	_, ok := newAuthService(nil, "other").verifySessionValue(value)
	assert.False(t, ok, "different secret")

	_, ok = a.verifySessionValue("x" + value)
	assert.False(t, ok, "modified payload")

	_, ok = a.verifySessionValue("no-dot")
	assert.False(t, ok)
}

func TestSessionValueExpires(t *testing.T) {
	issued := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	a := newAuthService(nil, "secret")
	a.now = func() time.Time { return issued }
	value := a.createSessionValue("admin@poolsmart.com")

	a.now = func() time.Time { return issued.Add(sessionTTL - time.Minute) }
	_, ok := a.verifySessionValue(value)
	assert.True(t, ok)

	a.now = func() time.Time { return issued.Add(sessionTTL + time.Minute) }
	_, ok = a.verifySessionValue(value)
	assert.False(t, ok)
}
