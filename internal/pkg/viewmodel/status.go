package viewmodel

import (
	"github.com/ManuelReschke/JobFox/app/models"
	"github.com/ManuelReschke/JobFox/internal/pkg/constants"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
)

type StepState string

const (
	StepDone    StepState = "done"
	StepCurrent StepState = "current"
	StepTodo    StepState = "todo"
)

type Step struct {
	Status models.LeadStatus
	Label  string
	State  StepState
}

// Status contains everything the status page and its polling fragment show.
type Status struct {
	LeadID      string
	CompanyURL  string
	JobTitle    string
	PlanType    models.PlanType
	Status      models.LeadStatus
	Info        lifecycle.DisplayInfo
	Steps       []Step
	Failed      bool
	Complete    bool
	Published   bool
	Polling     bool
	PollURL     string
	StreamURL   string
	RetryURL    string
	PreviewURL  string
	SuccessURL  string
	UpdatedAt   string
	PollSeconds int
	// CSRF is filled by the handler; the retry form posts it back.
	CSRF        string
}

func NewStatus(lead *models.Lead) Status {
	current := lifecycle.StepIndex(lead.Status)
	steps := make([]Step, 0, len(lifecycle.ProgressSteps()))
	for _, s := range lifecycle.ProgressSteps() {
		state := StepTodo
		idx := lifecycle.StepIndex(s)
		switch {
		case lead.Status == models.StatusPublished || idx < current:
			state = StepDone
		case idx == current:
			state = StepCurrent
			if s == models.StatusComplete {
				state = StepDone
			}
		}
		steps = append(steps, Step{Status: s, Label: lifecycle.Display(s).Label, State: state})
	}

	base := constants.StatusRoute + "/" + lead.ID
	return Status{
		LeadID:      lead.ID,
		CompanyURL:  lead.CompanyURL,
		JobTitle:    lead.JobTitle,
		PlanType:    lead.PlanType,
		Status:      lead.Status,
		Info:        lifecycle.Display(lead.Status),
		Steps:       steps,
		Failed:      lead.Status == models.StatusFailed,
		Complete:    lead.Status == models.StatusComplete,
		Published:   lead.Status == models.StatusPublished,
		Polling:     !lifecycle.IsTerminal(lead.Status),
		PollURL:     base + "/poll",
		StreamURL:   base + "/stream",
		RetryURL:    base + "/retry",
		PreviewURL:  constants.PreviewRoute + "/" + lead.ID,
		SuccessURL:  "/success/" + lead.ID,
		UpdatedAt:   lead.UpdatedAt.Format("02.01.2006 15:04:05"),
		PollSeconds: 2,
	}
}
