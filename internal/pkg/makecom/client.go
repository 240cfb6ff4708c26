// Package makecom forwards new leads to the Make.com automation scenario.
package makecom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/env"
)

const (
	defaultAppURL     = "http://localhost:3000"
	StatusWebhookPath = "/api/webhook/status"
)

// Payload is what the scenario receives for every new lead.
type Payload struct {
	LeadID       string          `json:"leadId"`
	CompanyURL   string          `json:"companyUrl"`
	JobTitle     string          `json:"jobTitle"`
	ContactEmail string          `json:"contactEmail"`
	ContactPhone string          `json:"contactPhone,omitempty"`
	PlanType     models.PlanType `json:"planType"`
	CallbackURL  string          `json:"callbackUrl"`
}

// Result reports a delivery attempt. Failures are soft.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Client struct {
	WebhookURL string
	AppURL     string
	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		WebhookURL: strings.TrimSpace(env.GetEnv("MAKECOM_LEAD_WEBHOOK", "")),
		AppURL:     strings.TrimRight(env.GetEnv("APP_URL", defaultAppURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool {
	return c.WebhookURL != ""
}

// CallbackURL is the status webhook the scenario reports back to.
func (c *Client) CallbackURL() string {
	base := c.AppURL
	if base == "" {
		base = defaultAppURL
	}
	return strings.TrimRight(base, "/") + StatusWebhookPath
}

func (c *Client) PayloadFor(lead *models.Lead) Payload {
	return Payload{
		LeadID:       lead.ID,
		CompanyURL:   lead.CompanyURL,
		JobTitle:     lead.JobTitle,
		ContactEmail: lead.ContactEmail,
		ContactPhone: lead.ContactPhone,
		PlanType:     lead.PlanType,
		CallbackURL:  c.CallbackURL(),
	}
}

// SubmitLead posts the lead to the scenario webhook.
func (c *Client) SubmitLead(ctx context.Context, lead *models.Lead) Result {
	if !c.Configured() {
		log.Warn("[Makecom] Lead webhook URL not configured")
		return Result{Success: false, Error: "Webhook not configured"}
	}

	body, err := json.Marshal(c.PayloadFor(lead))
	if err != nil {
		return c.fail(lead.ID, fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return c.fail(lead.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return c.fail(lead.ID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(lead.ID, fmt.Errorf("Make.com webhook failed: %d", resp.StatusCode))
	}
	log.Infof("[Makecom] Lead %s submitted", lead.ID)
	return Result{Success: true}
}

func (c *Client) fail(leadID string, err error) Result {
	log.Warnf("[Makecom] Submitting lead %s failed: %v", leadID, err)
	return Result{Success: false, Error: err.Error()}
}
