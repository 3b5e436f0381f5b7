// Package mailer sends transactional emails through the EmailJS REST API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

// DefaultEndpoint is the EmailJS send endpoint.
const DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// TemplateParams are the variables every template receives.
type TemplateParams struct {
	ToName     string `json:"to_name"`
	ToEmail    string `json:"to_email"`
	InviteLink string `json:"invite_link"`
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams TemplateParams `json:"template_params"`
}

// Client sends emails with the service, template and public key from the app settings.
type Client struct {
	endpoint   string
	appURL     string
	httpClient *http.Client
}

// New creates a Client. An empty endpoint uses DefaultEndpoint; appURL is the
// link sent in invitations.
func New(endpoint, appURL string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		appURL:   appURL,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Send delivers one email.
func (c *Client) Send(ctx context.Context, settings domain.AppSettings, params TemplateParams) error {
	if !settings.EmailConfigured() {
		return &domain.ConfigurationError{Message: "email service id, template id and public key are required"}
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      strings.TrimSpace(settings.EmailServiceID),
		TemplateID:     strings.TrimSpace(settings.EmailTemplateID),
		UserID:         strings.TrimSpace(settings.EmailPublicKey),
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	logger.Info(ctx).Str("to", params.ToEmail).Msg("Email sent")
	return nil
}

// SendInvite invites member to the application.
func (c *Client) SendInvite(ctx context.Context, settings domain.AppSettings, member domain.TeamMember) error {
	return c.Send(ctx, settings, TemplateParams{
		ToName:     member.Name,
		ToEmail:    member.Email,
		InviteLink: c.appURL,
	})
}

// SendLoginLink sends member a sign-in link.
func (c *Client) SendLoginLink(ctx context.Context, settings domain.AppSettings, member domain.TeamMember, link string) error {
	return c.Send(ctx, settings, TemplateParams{
		ToName:     member.Name,
		ToEmail:    member.Email,
		InviteLink: link,
	})
}
