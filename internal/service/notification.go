package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/mail"
	"github.com/dtroode/tap-portal-server/internal/model"
)

// Notifier emails eligible students about newly approved jobs.
type Notifier struct {
	students    model.StudentStore
	mailer      model.Mailer
	portalURL   string
	concurrency int
	logger      *logger.Logger
}

func NewNotifier(students model.StudentStore, mailer model.Mailer, portalURL string, concurrency int, logger *logger.Logger) *Notifier {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Notifier{
		students:    students,
		mailer:      mailer,
		portalURL:   portalURL,
		concurrency: concurrency,
		logger:      logger,
	}
}

// JobApproved sends one message per eligible student and returns how many were
// delivered. Delivery failures are logged, never returned.
func (n *Notifier) JobApproved(ctx context.Context, job model.Job) int {
	students, err := n.students.List(ctx, model.StudentFilter{
		Branches: job.Eligibility.Branches,
		Batches:  job.Eligibility.Batches,
	})
	if err != nil {
		n.logger.Error("Notification service: failed to list eligible students",
			"job_id", job.ID,
			"error", err.Error())
		return 0
	}
	if len(students) == 0 {
		n.logger.Info("Notification service: no eligible students", "job_id", job.ID)
		return 0
	}

	email, err := mail.JobAnnouncement(job, n.portalURL)
	if err != nil {
		n.logger.Error("Notification service: failed to render announcement",
			"job_id", job.ID,
			"error", err.Error())
		return 0
	}

	sent := make(chan struct{}, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)
	for _, s := range students {
		msg := email
		msg.To = []string{s.Email}
		g.Go(func() error {
			if err := n.mailer.Send(gctx, msg); err != nil {
				n.logger.Warn("Notification service: failed to send announcement",
					"job_id", job.ID,
					"roll", s.RollNumber,
					"error", err.Error())
				return nil
			}
			sent <- struct{}{}
			return nil
		})
	}
	_ = g.Wait()
	close(sent)

	n.logger.Info("Notification service: job announcement sent",
		"job_id", job.ID,
		"recipients", len(students),
		"delivered", len(sent))

	return len(sent)
}
