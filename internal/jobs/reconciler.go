// Package jobs runs the background schedules of the service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/skilltrack/certification-service/internal/services"
)

// VisibilityReconciler periodically re-runs issuance for certificates still
// hidden behind unpublished test results. It is the safety net for missed or
// failed publication recomputes.
type VisibilityReconciler struct {
	certificates services.CertificateService
	logger       *slog.Logger
	schedule     string

	cron *cron.Cron
}

func NewVisibilityReconciler(certificates services.CertificateService, logger *slog.Logger, schedule string) *VisibilityReconciler {
	return &VisibilityReconciler{
		certificates: certificates,
		logger:       logger,
		schedule:     schedule,
	}
}

// Start registers the schedule and begins running. The first sweep happens on
// the first tick, not at startup.
func (r *VisibilityReconciler) Start() error {
	r.cron = cron.New()

	if _, err := r.cron.AddFunc(r.schedule, r.run); err != nil {
		return fmt.Errorf("failed to schedule visibility reconciler: %w", err)
	}

	r.cron.Start()
	r.logger.Info("Visibility reconciler started", "schedule", r.schedule)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *VisibilityReconciler) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Visibility reconciler stopped")
}

func (r *VisibilityReconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	started := time.Now()
	if err := r.certificates.ReconcileVisibility(ctx); err != nil {
		r.logger.Error("Visibility reconcile sweep failed", "error", err)
		return
	}
	r.logger.Debug("Visibility reconcile sweep finished", "duration", time.Since(started))
}
