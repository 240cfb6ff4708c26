package controllers

import (
	"github.com/ManuelReschke/JobFox/app/repository"
	"github.com/ManuelReschke/JobFox/internal/pkg/events"
	"github.com/ManuelReschke/JobFox/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/JobFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/JobFox/internal/pkg/lifecycle"
	"github.com/ManuelReschke/JobFox/internal/pkg/makecom"
	"github.com/ManuelReschke/JobFox/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/JobFox/internal/pkg/simulator"
)

// Dependencies is what the controllers share. Optional parts may be nil:
// Simulator outside demo mode, Queue and Dispatcher when nothing is
// delivered, Captcha and Counter in tests.
type Dependencies struct {
	Engine     *lifecycle.Engine
	Broker     *events.Broker
	Dispatcher *makecom.Dispatcher
	Simulator  *simulator.Simulator
	Captcha    *hcaptcha.Verifier
	Counter    *counter.Counter
	Queue      *jobqueue.Queue

	// AppURL is the public base URL used in webhook answers.
	AppURL string
	// PaymentSecret signs POST /api/webhook/payment. Unsigned events are
	// only accepted in dev when it is empty.
	PaymentSecret string
	// BackupEnabled allows POST /admin/backup to enqueue snapshots.
	BackupEnabled bool
	IsDev         bool
}

func (d *Dependencies) store() repository.LeadStore {
	return d.Engine.Store()
}

func (d *Dependencies) demo() bool {
	return d.Simulator != nil
}

func (d *Dependencies) siteKey() string {
	if d.Captcha == nil || !d.Captcha.Enabled() {
		return ""
	}
	return d.Captcha.SiteKey
}
