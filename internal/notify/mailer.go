package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"workerbull/internal/config"
	"workerbull/internal/logger"
)

// BrevoMailer sends transactional email through the Brevo HTTP API.
type BrevoMailer struct {
	apiKey     string
	senderName string
	senderAddr string
	endpoint   string
	client     *http.Client
	log        *logger.Logger
}

func NewBrevoMailer(cfg config.EmailConfig, log *logger.Logger) *BrevoMailer {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.brevo.com/v3/smtp/email"
	}
	return &BrevoMailer{
		apiKey:     cfg.APIKey,
		senderName: cfg.SenderName,
		senderAddr: cfg.SenderAddr,
		endpoint:   endpoint,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (m *BrevoMailer) Send(to, subject, html string) error {
	if m.apiKey == "" {
		m.log.Warn("EMAIL", fmt.Sprintf("email service not configured, dropping %q to %s", subject, to))
		return nil
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": m.senderName, "email": m.senderAddr},
		To:          []map[string]string{{"email": to}},
		Subject:     subject,
		HTMLContent: html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
