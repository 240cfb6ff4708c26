package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/events"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/metrics/counter"
)

const testPaymentSecret = "pay_secret"

type testEnv struct {
	deps  *Dependencies
	store *repository.RedisLeadStore
	redis *redis.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewRedisLeadStore(client, "controllers")
	broker := events.NewBroker()
	deps := &Dependencies{
		Engine:        lifecycle.NewEngine(store, broker),
		Broker:        broker,
		Counter:       counter.New(client),
		AppURL:        "http://jobfox.test",
		PaymentSecret: testPaymentSecret,
	}
	return &testEnv{deps: deps, store: store, redis: client}
}

// newApp returns a fiber app with the page templates; routes are added by
// the caller.
func newApp() *fiber.App {
	return fiber.New(fiber.Config{Views: NewViewEngine("../../views")})
}

func (e *testEnv) seed(t *testing.T, plan models.PlanType, status models.LeadStatus) *models.Lead {
	t.Helper()
	lead := models.NewLead("https://acme.de", "Vertriebsmitarbeiter", "hr@acme.de", "", plan, time.Now())
	lead.Status = status
	if lifecycle.AllowsContent(status) {
		lead.Profile = sampleProfile()
		lead.JobAdvert = sampleJob()
	}
	e.store.SaveLead(context.Background(), lead)
	return lead
}

func (e *testEnv) lead(t *testing.T, id string) *models.Lead {
	t.Helper()
	lead, ok := e.store.GetLead(context.Background(), id)
	require.True(t, ok, "lead %s not stored", id)
	return lead
}

func sampleProfile() *models.CompanyProfile {
	return &models.CompanyProfile{
		CompanyName: "Acme GmbH",
		AboutText:   strings.Repeat("Wir bauen Software für den Mittelstand. ", 3),
		Values:      []string{"Qualität", "Teamgeist"},
		Benefits:    []string{"Homeoffice", "30 Tage Urlaub"},
		BrandColors: models.BrandColors{Primary: "#0066cc", Secondary: "#00a3b8"},
		Contact:     models.CompanyContact{Website: "https://acme.de"},
	}
}

func sampleJob() *models.JobAdvert {
	return &models.JobAdvert{
		Title:            "Vertriebsmitarbeiter (m/w/d)",
		Location:         "München",
		EmploymentType:   models.EmploymentFullTime,
		Introduction:     strings.Repeat("Verstärken Sie unser Vertriebsteam. ", 3),
		Responsibilities: []string{"Neukunden gewinnen", "Angebote erstellen", "Messen besuchen"},
		Requirements:     []string{"Erfahrung im Vertrieb", "Reisebereitschaft"},
		Benefits:         []string{"Firmenwagen", "Provision"},
	}
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func getRequest(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func isRedirect(code int) bool {
	return code == fiber.StatusFound || code == fiber.StatusSeeOther
}
