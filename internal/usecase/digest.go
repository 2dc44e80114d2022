package usecase

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ReviewDigest periodically mails a summary of the manual review queue so
// flagged certificates do not sit unnoticed.
type ReviewDigest struct {
	Certificates CertificateRepository
	Notifier     Notifier
	Schedule     string
	Logger       *slog.Logger

	cron *cron.Cron
}

func NewReviewDigest(certs CertificateRepository, notifier Notifier, schedule string, log *slog.Logger) *ReviewDigest {
	if log == nil {
		log = slog.Default()
	}
	return &ReviewDigest{
		Certificates: certs,
		Notifier:     notifier,
		Schedule:     schedule,
		Logger:       log,
	}
}

// Start registers the cron entry and begins the schedule. A bad schedule
// expression is reported, never silently ignored.
func (d *ReviewDigest) Start() error {
	if d.Notifier == nil || d.Schedule == "" {
		return nil
	}
	d.cron = cron.New()
	if _, err := d.cron.AddFunc(d.Schedule, func() {
		if err := d.Run(context.Background()); err != nil {
			d.Logger.Warn("review digest failed", "err", err)
		}
	}); err != nil {
		return err
	}
	d.cron.Start()
	return nil
}

func (d *ReviewDigest) Stop() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}
}

// Run sends one digest. An empty queue sends nothing.
func (d *ReviewDigest) Run(ctx context.Context) error {
	certs, err := d.Certificates.ListManualReview(ctx, "")
	if err != nil {
		return err
	}
	if len(certs) == 0 {
		return nil
	}
	return d.Notifier.ReviewDigest(ctx, certs)
}
