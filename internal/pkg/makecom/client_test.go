package makecom

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/JobFox/app/models"
)

func testLead() *models.Lead {
	return models.NewLead("https://example.com", "Backend Engineer", "hr@example.com", "+4915112345678",
		models.PlanPremium, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
}

func TestSubmitLead_PostsPayload(t *testing.T) {
	var received Payload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &Client{WebhookURL: srv.URL, AppURL: "https://jobfox.example/", HTTPClient: srv.Client()}
	lead := testLead()

	result := client.SubmitLead(context.Background(), lead)

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, lead.ID, received.LeadID)
	assert.Equal(t, "https://example.com", received.CompanyURL)
	assert.Equal(t, "Backend Engineer", received.JobTitle)
	assert.Equal(t, "hr@example.com", received.ContactEmail)
	assert.Equal(t, "+4915112345678", received.ContactPhone)
	assert.Equal(t, models.PlanPremium, received.PlanType)
	assert.Equal(t, "https://jobfox.example/api/webhook/status", received.CallbackURL)
}

func TestSubmitLead_NotConfigured(t *testing.T) {
	client := &Client{}
	result := client.SubmitLead(context.Background(), testLead())
	assert.False(t, result.Success)
	assert.Equal(t, "Webhook not configured", result.Error)
}

func TestSubmitLead_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := &Client{WebhookURL: srv.URL, HTTPClient: srv.Client()}
	result := client.SubmitLead(context.Background(), testLead())
	assert.False(t, result.Success)
	assert.Equal(t, "Make.com webhook failed: 502", result.Error)
}

func TestSubmitLead_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := &Client{WebhookURL: url, HTTPClient: &http.Client{Timeout: time.Second}}
	result := client.SubmitLead(context.Background(), testLead())
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestPayloadFor_OmitsEmptyPhone(t *testing.T) {
	lead := testLead()
	lead.ContactPhone = ""
	client := &Client{}

	raw, err := json.Marshal(client.PayloadFor(lead))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "contactPhone")
	assert.Contains(t, string(raw), `"callbackUrl":"http://localhost:3000/api/webhook/status"`)
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("MAKECOM_LEAD_WEBHOOK", " https://hook.eu1.make.com/abc ")
	t.Setenv("APP_URL", "https://jobfox.example/")

	client := NewClientFromEnv()
	assert.True(t, client.Configured())
	assert.Equal(t, "https://hook.eu1.make.com/abc", client.WebhookURL)
	assert.Equal(t, "https://jobfox.example/api/webhook/status", client.CallbackURL())
	assert.Equal(t, 15*time.Second, client.HTTPClient.Timeout)
}

func TestVerifySecret(t *testing.T) {
	assert.True(t, VerifySecret("", ""))
	assert.True(t, VerifySecret("anything", ""))
	assert.True(t, VerifySecret(" s3cret ", "s3cret"))
	assert.False(t, VerifySecret("", "s3cret"))
	assert.False(t, VerifySecret("wrong", "s3cret"))
}
