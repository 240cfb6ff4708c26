package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/JobFox/app/models"
)

func newPreviewApp(env *testEnv) *fiber.App {
	pc := NewPreviewController(env.deps)
	app := newApp()
	app.Get("/preview/:id", pc.HandlePreview)
	app.Get("/preview/:id/logo.png", pc.HandleLogo)
	app.Post("/preview/:id/profile", pc.HandleSaveProfile)
	app.Post("/preview/:id/job", pc.HandleSaveJob)
	app.Post("/preview/:id/proceed", pc.HandleProceed)
	app.Get("/preview/:id/draft/:type", pc.HandleGetDraft)
	app.Post("/preview/:id/draft/:type", pc.HandleSaveDraft)
	app.Delete("/preview/:id/draft/:type", pc.HandleDeleteDraft)
	app.Post("/preview/:id/draft/:type/merge", pc.HandleMergeDraft)
	return app
}

func TestPreviewPage(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanPremium, models.StatusComplete)

	resp, body := do(t, app, getRequest("/preview/"+lead.ID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	html := string(body)
	assert.Contains(t, html, "Acme GmbH")
	assert.Contains(t, html, "Vertriebsmitarbeiter (m/w/d)")
	assert.Contains(t, html, "/preview/"+lead.ID+"/logo.png")
	assert.Contains(t, html, "Weiter zur Bestellung")
}

func TestPreviewPage_EditForm(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	resp, body := do(t, app, getRequest("/preview/"+lead.ID+"?edit=job"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `action="/preview/`+lead.ID+`/job"`)
	assert.Contains(t, string(body), "Messen besuchen")
}

func TestPreviewPage_RedirectsWhileProcessing(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusGenerating)

	resp, _ := do(t, app, getRequest("/preview/"+lead.ID))
	assert.True(t, isRedirect(resp.StatusCode))
	assert.Equal(t, "/status/"+lead.ID, resp.Header.Get(fiber.HeaderLocation))
}

func TestSaveProfile_JSON(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	profile := sampleProfile()
	profile.CompanyName = "Acme Solutions GmbH"
	resp, body := do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/profile", profile))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, true, decode(t, body)["success"])
	assert.Equal(t, "Acme Solutions GmbH", env.lead(t, lead.ID).Profile.CompanyName)
}

func TestSaveProfile_JSONValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	profile := sampleProfile()
	profile.AboutText = "zu kurz"
	resp, body := do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/profile", profile))
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode(t, body)["errors"], "aboutText")
	assert.Equal(t, "Acme GmbH", env.lead(t, lead.ID).Profile.CompanyName)
}

func TestSaveProfile_NotAllowedBeforeComplete(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusScraping)

	resp, _ := do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/profile", sampleProfile()))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Nil(t, env.lead(t, lead.ID).Profile)
}

func TestSaveJob_Form(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	job := sampleJob()
	resp, _ := do(t, app, formRequest("/preview/"+lead.ID+"/job", url.Values{
		"title":            {"Key Account Manager (m/w/d)"},
		"location":         {"Hamburg"},
		"employmentType":   {"part-time"},
		"introduction":     {job.Introduction},
		"responsibilities": {"Kunden betreuen\nVerträge verhandeln\n\nReporting"},
		"requirements":     {"Vertriebserfahrung\nFührerschein"},
		"benefits":         {"Firmenwagen\nBonus"},
	}))
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/preview/"+lead.ID, resp.Header.Get(fiber.HeaderLocation))

	stored := env.lead(t, lead.ID).JobAdvert
	require.NotNil(t, stored)
	assert.Equal(t, "Key Account Manager (m/w/d)", stored.Title)
	assert.Equal(t, models.EmploymentPartTime, stored.EmploymentType)
	assert.Equal(t, []string{"Kunden betreuen", "Verträge verhandeln", "Reporting"}, stored.Responsibilities)
}

func TestSaveJob_FormErrorsRedirectToEditor(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	resp, _ := do(t, app, formRequest("/preview/"+lead.ID+"/job", url.Values{
		"title":          {"Job"},
		"location":       {"Hamburg"},
		"employmentType": {"full-time"},
	}))
	assert.True(t, isRedirect(resp.StatusCode))
	assert.Equal(t, "/preview/"+lead.ID+"?edit=job", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, "Vertriebsmitarbeiter (m/w/d)", env.lead(t, lead.ID).JobAdvert.Title)
}

func TestDrafts(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)
	draftURL := "/preview/" + lead.ID + "/draft/profile"

	resp, _ := do(t, app, getRequest(draftURL))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, draftURL, `{"companyName":"Entwurf GmbH"}`))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, getRequest(draftURL))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode(t, body)
	assert.NotEmpty(t, out["savedAt"])
	assert.Equal(t, "Entwurf GmbH", out["content"].(map[string]any)["companyName"])

	resp, _ = do(t, app, jsonRequest(http.MethodDelete, draftURL, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	_, ok := env.store.GetDraft(context.Background(), lead.ID, models.ContentProfile)
	assert.False(t, ok)
}

func TestDrafts_Rejections(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	resp, _ := do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/draft/job", `{}`))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/preview/lead_missing/draft/profile", `{}`))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/draft/profile", `{broken`))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMergeDraft(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	profile := sampleProfile()
	profile.CompanyName = "Entwurf GmbH"
	resp, _ := do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/draft/profile", profile))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/draft/profile/merge", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "Entwurf GmbH", env.lead(t, lead.ID).Profile.CompanyName)

	resp, _ = do(t, app, jsonRequest(http.MethodPost, "/preview/"+lead.ID+"/draft/profile/merge", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProceed(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)

	cases := []struct {
		plan     models.PlanType
		status   models.LeadStatus
		location string
	}{
		{models.PlanPremium, models.StatusComplete, "/order/"},
		{models.PlanFree, models.StatusComplete, "/preview/"},
		{models.PlanPremium, models.StatusPublished, "/success/"},
		{models.PlanFree, models.StatusAnalyzing, "/status/"},
	}
	for _, tc := range cases {
		lead := env.seed(t, tc.plan, tc.status)
		resp, _ := do(t, app, formRequest("/preview/"+lead.ID+"/proceed", nil))
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, tc.location+lead.ID, resp.Header.Get(fiber.HeaderLocation), "%s/%s", tc.plan, tc.status)
	}
}

func TestLogoFallback(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)

	resp, body := do(t, app, getRequest("/preview/"+lead.ID+"/logo.png?size=64"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG\r\n\x1a\n")))
}

func TestLogoRedirectsToScrapedLogo(t *testing.T) {
	env := newTestEnv(t)
	app := newPreviewApp(env)
	lead := env.seed(t, models.PlanFree, models.StatusComplete)
	profile := sampleProfile()
	profile.Logo = "https://cdn.acme.de/logo.svg"
	_, errs, err := env.deps.Engine.SaveProfile(context.Background(), lead.ID, profile)
	require.NoError(t, err)
	require.Nil(t, errs)

	resp, _ := do(t, app, getRequest("/preview/"+lead.ID+"/logo.png"))
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://cdn.acme.de/logo.svg", resp.Header.Get(fiber.HeaderLocation))
}
