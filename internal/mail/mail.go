// Package mail emails quotes to clients through Amazon SES.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/Simplici0/poolsmart/internal/document"
	"github.com/Simplici0/poolsmart/internal/logger"
	"github.com/Simplici0/poolsmart/internal/metrics"
)

// ErrNoRecipient is returned when the quote carries no client email.
var ErrNoRecipient = errors.New("quote has no client email")

// SESAPI is the subset of the SES client used by Mailer.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer sends quote documents by email.
type Mailer struct {
	client SESAPI
	from   string
	log    logger.Logger
}

// New returns a Mailer using the given SES client.
func New(client SESAPI, from string, log logger.Logger) *Mailer {
	return &Mailer{client: client, from: from, log: log}
}

// NewSES loads the default AWS configuration for region and returns a Mailer
// backed by a real SES client.
func NewSES(ctx context.Context, region, from string, log logger.Logger) (*Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(ses.NewFromConfig(cfg), from, log), nil
}

// Subject returns the email subject line for a quote.
func Subject(d document.Document) string {
	if d.Reference == "" {
		return fmt.Sprintf("Cotización de %s", d.Company.Name)
	}
	return fmt.Sprintf("Cotización %s de %s", d.Reference, d.Company.Name)
}

// SendQuote emails the text rendition of the quote to the client and returns
// the SES message id.
func (m *Mailer) SendQuote(ctx context.Context, d document.Document) (string, error) {
	to := strings.TrimSpace(d.Job.Client.Email)
	if to == "" {
		return "", ErrNoRecipient
	}

	body := document.RenderText(d)
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(Subject(d)), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(m.from),
	})
	fields := map[string]interface{}{"reference": d.Reference, "to": to}
	if err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		m.log.WithError(err).Error("quote email failed", fields)
		return "", fmt.Errorf("send quote email: %w", err)
	}

	metrics.EmailsSent.WithLabelValues("sent").Inc()
	var id string
	if out != nil && out.MessageId != nil {
		id = *out.MessageId
	}
	fields["messageId"] = id
	m.log.Info("quote emailed", fields)
	return id, nil
}
