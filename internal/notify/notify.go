// Package notify sends transactional email through the Resend HTTP API.
// Notifications are best-effort: callers log failures and move on, and the
// whole package degrades to a no-op when no API key is configured.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/peerhub/peerhub/internal/config"
	"github.com/peerhub/peerhub/internal/logger"
)

const defaultBaseURL = "https://api.resend.com"

type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// EmailNotifier sends peerhub notification emails. Safe for concurrent use.
type EmailNotifier struct {
	client       *resty.Client
	apiKey       string
	sender       string
	abuseAddress string
	logger       *logger.Logger
}

// NewEmailNotifier constructs a notifier from the email provider settings.
// An empty API key is a valid configuration: delivery becomes a no-op.
func NewEmailNotifier(cfg config.Email, logger *logger.Logger) *EmailNotifier {
	return &EmailNotifier{
		client: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(10 * time.Second),
		apiKey:       cfg.APIKey,
		sender:       cfg.Sender,
		abuseAddress: cfg.AbuseAddress,
		logger:       logger,
	}
}

// SetBaseURL overrides the provider base URL. Used in tests.
func (n *EmailNotifier) SetBaseURL(baseURL string) {
	n.client.SetBaseURL(strings.TrimRight(baseURL, "/"))
}

// Enabled reports whether outgoing email is configured.
func (n *EmailNotifier) Enabled() bool {
	return n.apiKey != ""
}

// NotifyNewReview tells the reviewed user that someone left them a review.
// The reviewer's name is omitted for anonymous reviews.
func (n *EmailNotifier) NotifyNewReview(ctx context.Context, recipient, reviewedUsername, reviewerUsername string, anonymous bool) error {
	who := "Someone"
	if !anonymous && reviewerUsername != "" {
		who = reviewerUsername
	}

	subject := fmt.Sprintf("%s left you a review on peerhub", who)
	body := fmt.Sprintf(
		"<p>%s just reviewed <strong>%s</strong>.</p><p>Sign in to see what they said.</p>",
		who, reviewedUsername,
	)

	return n.send(ctx, []string{recipient}, subject, body)
}

// NotifyNewAccount tells the abuse-control address that a new account
// signed up. No-op when no abuse address is configured.
func (n *EmailNotifier) NotifyNewAccount(ctx context.Context, username string) error {
	if n.abuseAddress == "" {
		return nil
	}

	subject := "New peerhub account: " + username
	body := fmt.Sprintf("<p>GitHub user <strong>%s</strong> just created an account.</p>", username)

	return n.send(ctx, []string{n.abuseAddress}, subject, body)
}

func (n *EmailNotifier) send(ctx context.Context, to []string, subject, html string) error {
	if !n.Enabled() {
		n.logger.Debug().Str("subject", subject).Msg("email notifications disabled, skipping send")
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+n.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(emailPayload{
			From:    n.sender,
			To:      to,
			Subject: subject,
			HTML:    html,
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("send email: http %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	return nil
}
