// Package lifecycle owns the lead status state machine: one-step progression,
// webhook-driven updates, retry, content attachment and the premium checkout.
package lifecycle

import (
	"errors"

	"github.com/ManuelReschke/JobFox/app/models"
)

var (
	ErrLeadNotFound       = errors.New("lead not found")
	ErrNotRetryable       = errors.New("only failed leads can be retried")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentFrozen      = errors.New("payment already completed")
	ErrPublishNotAllowed  = errors.New("publishing requires a premium lead with completed payment")
	ErrStaleStatus        = errors.New("status would move a finished lead backwards")
	ErrContentNotAllowed  = errors.New("content can only be attached once the lead is complete")
	ErrDraftNotFound      = errors.New("draft not found")
	ErrInvalidDraft       = errors.New("draft content is malformed")
	ErrUnsupportedContent = errors.New("unsupported content type")
)

var happyPath = []models.LeadStatus{
	models.StatusPending,
	models.StatusProcessing,
	models.StatusScraping,
	models.StatusAnalyzing,
	models.StatusGenerating,
	models.StatusComplete,
	models.StatusPublished,
}

// Next returns the status one step further along the happy path. Internal
// progression stops at complete; publishing goes through checkout.
func Next(status models.LeadStatus) (models.LeadStatus, bool) {
	if status == models.StatusComplete || status == models.StatusPublished || status == models.StatusFailed {
		return "", false
	}
	for i, s := range happyPath {
		if s == status && i+1 < len(happyPath) {
			return happyPath[i+1], true
		}
	}
	return "", false
}

// ProgressSteps lists the states shown as a checklist on the status page.
func ProgressSteps() []models.LeadStatus {
	return []models.LeadStatus{
		models.StatusProcessing,
		models.StatusScraping,
		models.StatusAnalyzing,
		models.StatusGenerating,
		models.StatusComplete,
	}
}

// StepIndex is the position of status on the happy path, -1 for failed or unknown.
func StepIndex(status models.LeadStatus) int {
	for i, s := range happyPath {
		if s == status {
			return i
		}
	}
	return -1
}

// AllowsContent reports whether profile and job advert may be attached.
func AllowsContent(status models.LeadStatus) bool {
	return status == models.StatusComplete || status == models.StatusPublished
}

// IsTerminal reports states nothing advances from on its own.
func IsTerminal(status models.LeadStatus) bool {
	return status == models.StatusComplete || status == models.StatusPublished || status == models.StatusFailed
}

const (
	ColorNeutral = "neutral"
	ColorPrimary = "primary"
	ColorSuccess = "success"
	ColorError   = "error"
)

// DisplayInfo is the presentation tuple for a status.
type DisplayInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Progress    int    `json:"progress"`
}

var display = map[models.LeadStatus]DisplayInfo{
	models.StatusPending:    {"Ausstehend", "Ihre Anfrage wurde empfangen und wartet auf Bearbeitung.", ColorNeutral, 0},
	models.StatusProcessing: {"In Bearbeitung", "Wir starten die Analyse Ihrer Unternehmenswebsite.", ColorPrimary, 10},
	models.StatusScraping:   {"Website wird analysiert", "Wir sammeln Informationen von Ihrer Website.", ColorPrimary, 30},
	models.StatusAnalyzing:  {"Daten werden verarbeitet", "Logo, Farben und Texte werden extrahiert.", ColorPrimary, 50},
	models.StatusGenerating: {"Inhalte werden erstellt", "KI generiert Ihr Unternehmensprofil und die Stellenanzeige.", ColorPrimary, 75},
	models.StatusComplete:   {"Abgeschlossen", "Ihr Profil und Ihre Stellenanzeige sind bereit zur Ansicht.", ColorSuccess, 100},
	models.StatusPublished:  {"Veröffentlicht", "Ihre Stellenanzeige ist jetzt live!", ColorSuccess, 100},
	models.StatusFailed:     {"Fehler", "Bei der Verarbeitung ist ein Fehler aufgetreten.", ColorError, 0},
}

// Display maps a status to its label, description, color class and progress.
func Display(status models.LeadStatus) DisplayInfo {
	if info, ok := display[status]; ok {
		return info
	}
	return DisplayInfo{Label: string(status), Color: ColorNeutral}
}
