// Package mailer sends transactional email through the Brevo REST API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Mailer defines the outbound email capability the auth flow needs
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlContent string) error
}

// BrevoMailer implements Mailer against the Brevo transactional API
type BrevoMailer struct {
	apiKey     string
	fromEmail  string
	fromName   string
	endpoint   string
	httpClient *http.Client
}

// NewBrevoMailer creates a mailer with a bounded request timeout
func NewBrevoMailer(apiKey, fromEmail, fromName string) *BrevoMailer {
	return &BrevoMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		endpoint:  brevoEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// Send delivers one HTML email
func (m *BrevoMailer) Send(ctx context.Context, to, subject, htmlContent string) error {
	body, err := json.Marshal(brevoRequest{
		Sender:      brevoAddress{Email: m.fromEmail, Name: m.fromName},
		To:          []brevoAddress{{Email: to}},
		Subject:     subject,
		HTMLContent: htmlContent,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo API returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
