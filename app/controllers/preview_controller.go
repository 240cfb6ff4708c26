package controllers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/flash"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/logo"
	"github.com/ManuelReschke/JobFox/internal/pkg/simulator"
	"github.com/ManuelReschke/JobFox/internal/pkg/toast"
	"github.com/ManuelReschke/JobFox/internal/pkg/validation"
)

// PreviewController shows generated content and takes edits and drafts.
type PreviewController struct {
	deps *Dependencies
}

func NewPreviewController(deps *Dependencies) *PreviewController {
	return &PreviewController{deps: deps}
}

type profileForm struct {
	CompanyName    string `form:"companyName"`
	AboutText      string `form:"aboutText"`
	Mission        string `form:"mission"`
	Industry       string `form:"industry"`
	Values         string `form:"values"`
	Benefits       string `form:"benefits"`
	PrimaryColor   string `form:"primaryColor"`
	SecondaryColor string `form:"secondaryColor"`
	AccentColor    string `form:"accentColor"`
}

type jobForm struct {
	Title            string `form:"title"`
	Location         string `form:"location"`
	EmploymentType   string `form:"employmentType"`
	Introduction     string `form:"introduction"`
	Responsibilities string `form:"responsibilities"`
	Requirements     string `form:"requirements"`
	NiceToHave       string `form:"niceToHave"`
	Benefits         string `form:"benefits"`
}

// splitLines turns a textarea into list items, one per non-empty line.
func splitLines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (pc *PreviewController) previewURL(id string) string {
	return "/preview/" + id
}

func (pc *PreviewController) HandlePreview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	lead, ok := pc.deps.store().GetLead(ctx, id)
	if !ok {
		return pc.deps.notFound(c)
	}
	if !lifecycle.AllowsContent(lead.Status) {
		return c.Redirect("/status/" + id)
	}

	if pc.deps.demo() && !lead.HasGeneratedContent() {
		sample := simulator.SampleContent(lead)
		filled, err := pc.deps.Engine.Complete(ctx, &lifecycle.CompletePayload{
			LeadID:    id,
			Profile:   sample.Profile,
			JobAdvert: sample.JobAdvert,
		})
		if err != nil {
			log.Warnf("[Preview] Could not fill sample content for %s: %v", id, err)
		} else {
			lead = filled
		}
	}

	_, profileDraft := pc.deps.store().GetDraft(ctx, id, models.ContentProfile)
	_, jobDraft := pc.deps.store().GetDraft(ctx, id, models.ContentJobAdvert)
	price, currency := pc.deps.Engine.Price()

	return pc.deps.renderPage(c, "preview", "Vorschau", fiber.Map{
		"Lead":         lead,
		"Profile":      lead.Profile,
		"Job":          lead.JobAdvert,
		"Edit":         c.Query("edit"),
		"ProfileDraft": profileDraft,
		"JobDraft":     jobDraft,
		"Premium":      lead.IsPremium(),
		"Published":    lead.Status == models.StatusPublished,
		"LogoURL":      pc.previewURL(id) + "/logo.png",
		"Price":        price,
		"Currency":     currency,
	})
}

func (pc *PreviewController) HandleSaveProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	lead, ok := pc.deps.store().GetLead(ctx, id)
	if !ok {
		return pc.missing(c)
	}

	var profile models.CompanyProfile
	var old map[string]string
	if c.Is("json") {
		if err := c.BodyParser(&profile); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	} else {
		form := new(profileForm)
		if err := c.BodyParser(form); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Ungültige Eingabe")
		}
		if lead.Profile != nil {
			profile = *lead.Profile
		}
		profile.CompanyName = strings.TrimSpace(form.CompanyName)
		profile.AboutText = strings.TrimSpace(form.AboutText)
		profile.Mission = strings.TrimSpace(form.Mission)
		profile.Industry = strings.TrimSpace(form.Industry)
		profile.Values = splitLines(form.Values)
		profile.Benefits = splitLines(form.Benefits)
		if form.PrimaryColor != "" {
			profile.BrandColors.Primary = form.PrimaryColor
		}
		if form.SecondaryColor != "" {
			profile.BrandColors.Secondary = form.SecondaryColor
		}
		profile.BrandColors.Accent = form.AccentColor
		old = map[string]string{
			"companyName": form.CompanyName,
			"aboutText":   form.AboutText,
			"mission":     form.Mission,
			"industry":    form.Industry,
			"values":      form.Values,
			"benefits":    form.Benefits,
		}
	}

	_, errs, err := pc.deps.Engine.SaveProfile(ctx, id, &profile)
	return pc.finishEdit(c, id, "profile", errs, old, err, "Unternehmensprofil gespeichert")
}

func (pc *PreviewController) HandleSaveJob(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	lead, ok := pc.deps.store().GetLead(ctx, id)
	if !ok {
		return pc.missing(c)
	}

	var job models.JobAdvert
	var old map[string]string
	if c.Is("json") {
		if err := c.BodyParser(&job); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	} else {
		form := new(jobForm)
		if err := c.BodyParser(form); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Ungültige Eingabe")
		}
		if lead.JobAdvert != nil {
			job = *lead.JobAdvert
		}
		job.Title = strings.TrimSpace(form.Title)
		job.Location = strings.TrimSpace(form.Location)
		job.EmploymentType = models.EmploymentType(strings.TrimSpace(form.EmploymentType))
		job.Introduction = strings.TrimSpace(form.Introduction)
		job.Responsibilities = splitLines(form.Responsibilities)
		job.Requirements = splitLines(form.Requirements)
		job.NiceToHave = splitLines(form.NiceToHave)
		job.Benefits = splitLines(form.Benefits)
		old = map[string]string{
			"title":            form.Title,
			"location":         form.Location,
			"employmentType":   form.EmploymentType,
			"introduction":     form.Introduction,
			"responsibilities": form.Responsibilities,
			"requirements":     form.Requirements,
			"niceToHave":       form.NiceToHave,
			"benefits":         form.Benefits,
		}
	}

	_, errs, err := pc.deps.Engine.SaveJobAdvert(ctx, id, &job)
	return pc.finishEdit(c, id, "job", errs, old, err, "Stellenanzeige gespeichert")
}

// finishEdit maps the outcome of a content edit to JSON or a redirect.
func (pc *PreviewController) finishEdit(c *fiber.Ctx, id, section string, errs validation.Errors, old map[string]string, err error, success string) error {
	asJSON := wantsJSON(c)
	switch {
	case errors.Is(err, lifecycle.ErrLeadNotFound):
		return pc.missing(c)
	case errors.Is(err, lifecycle.ErrDraftNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
	case errors.Is(err, lifecycle.ErrInvalidDraft), errors.Is(err, lifecycle.ErrUnsupportedContent):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrContentNotAllowed):
		if asJSON {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		toast.FromCtx(c).Error("Nicht möglich", "Inhalte können erst nach Abschluss bearbeitet werden.")
		return redirectSeeOther(c, "/status/"+id)
	case err != nil:
		log.Errorf("[Preview] Saving %s of %s failed: %v", section, id, err)
		return fiber.ErrInternalServerError
	}

	if errs != nil {
		if asJSON {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": errs})
		}
		return flash.WithFormErrors(c, "Bitte korrigieren Sie die markierten Felder.", errs, old).
			Redirect(pc.previewURL(id) + "?edit=" + section)
	}

	if asJSON {
		return c.JSON(fiber.Map{"success": true})
	}
	toast.FromCtx(c).Success("Gespeichert", success)
	return redirectSeeOther(c, pc.previewURL(id))
}

// missing answers an unknown lead in the format the caller expects.
func (pc *PreviewController) missing(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}
	return pc.deps.notFound(c)
}

func (pc *PreviewController) draftTarget(c *fiber.Ctx) (string, models.ContentType, error) {
	id := c.Params("id")
	contentType := models.ContentType(c.Params("type"))
	if !contentType.IsValid() {
		return "", "", c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown content type"})
	}
	if _, ok := pc.deps.store().GetLead(c.UserContext(), id); !ok {
		return "", "", c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}
	return id, contentType, nil
}

// HandleSaveDraft stages unsaved edits. The body is stored as sent.
func (pc *PreviewController) HandleSaveDraft(c *fiber.Ctx) error {
	id, contentType, err := pc.draftTarget(c)
	if id == "" {
		return err
	}
	body := c.Body()
	if !json.Valid(body) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Draft must be valid JSON"})
	}
	// fasthttp reuses the request buffer
	content := append(json.RawMessage(nil), body...)
	pc.deps.store().SaveDraft(c.UserContext(), id, contentType, content)
	return c.JSON(fiber.Map{"success": true})
}

func (pc *PreviewController) HandleGetDraft(c *fiber.Ctx) error {
	id, contentType, err := pc.draftTarget(c)
	if id == "" {
		return err
	}
	draft, ok := pc.deps.store().GetDraft(c.UserContext(), id, contentType)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Draft not found"})
	}
	return c.JSON(draft)
}

func (pc *PreviewController) HandleDeleteDraft(c *fiber.Ctx) error {
	id, contentType, err := pc.draftTarget(c)
	if id == "" {
		return err
	}
	pc.deps.store().ClearDraft(c.UserContext(), id, contentType)
	return c.JSON(fiber.Map{"success": true})
}

// HandleMergeDraft commits the staged draft onto the lead.
func (pc *PreviewController) HandleMergeDraft(c *fiber.Ctx) error {
	id, contentType, err := pc.draftTarget(c)
	if id == "" {
		return err
	}
	_, errs, err := pc.deps.Engine.MergeDraft(c.UserContext(), id, contentType)
	section := "profile"
	if contentType == models.ContentJobAdvert {
		section = "job"
	}
	return pc.finishEdit(c, id, section, errs, nil, err, "Entwurf übernommen")
}

// HandleProceed continues after the review: premium leads go to checkout,
// free leads only get the PDF notice.
func (pc *PreviewController) HandleProceed(c *fiber.Ctx) error {
	id := c.Params("id")
	lead, ok := pc.deps.store().GetLead(c.UserContext(), id)
	if !ok {
		return pc.deps.notFound(c)
	}
	switch {
	case lead.Status == models.StatusPublished:
		return redirectSeeOther(c, "/success/"+id)
	case lead.Status != models.StatusComplete:
		toast.FromCtx(c).Error("Noch nicht fertig", "Bitte warten Sie, bis die Inhalte erstellt wurden.")
		return redirectSeeOther(c, "/status/"+id)
	case lead.IsPremium():
		return redirectSeeOther(c, "/order/"+id)
	}
	toast.FromCtx(c).Info("PDF-Download", "Ihr PDF wird vorbereitet. Für die Veröffentlichung wählen Sie Premium.")
	return redirectSeeOther(c, pc.previewURL(id))
}

// HandleLogo redirects to the scraped logo or draws a fallback in the
// brand colors.
func (pc *PreviewController) HandleLogo(c *fiber.Ctx) error {
	lead, ok := pc.deps.store().GetLead(c.UserContext(), c.Params("id"))
	if !ok {
		return c.SendStatus(fiber.StatusNotFound)
	}

	name := lead.CompanyURL
	primary, secondary := "", ""
	if p := lead.Profile; p != nil {
		if p.Logo != "" {
			return c.Redirect(p.Logo, fiber.StatusFound)
		}
		if p.CompanyName != "" {
			name = p.CompanyName
		}
		primary, secondary = p.BrandColors.Primary, p.BrandColors.Secondary
	}

	size := c.QueryInt("size", logo.DefaultSize)
	if size < 32 || size > 512 {
		size = logo.DefaultSize
	}
	data, err := logo.PNG(name, primary, secondary, size)
	if err != nil {
		log.Errorf("[Preview] Logo for %s failed: %v", lead.ID, err)
		return fiber.ErrInternalServerError
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	c.Type("png")
	return c.Send(data)
}
