package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reconciler issues certificates that are due but missing
type Reconciler interface {
	ReconcileCertificates(ctx context.Context) (int, error)
}

const sweepTimeout = 10 * time.Minute

// InitializeCertificateScheduler starts a cron job running the certificate sweep on schedule.
// The caller stops the returned cron on shutdown.
func InitializeCertificateScheduler(schedule string, r Reconciler) (*cron.Cron, error) {
	log.Println("[CERTIFICATE-SCHEDULER] Initializing certificate scheduler...")

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { RunCertificateSweep(r) }); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[CERTIFICATE-SCHEDULER] Certificate scheduler started - runs at %q", schedule)
	return c, nil
}

// RunCertificateSweep performs one reconciliation pass
func RunCertificateSweep(r Reconciler) {
	log.Println("[CERTIFICATE-SCHEDULER] Running certificate sweep...")

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	issued, err := r.ReconcileCertificates(ctx)
	if err != nil {
		log.Printf("[CERTIFICATE-SCHEDULER] Error reconciling certificates: %v", err)
		return
	}
	log.Printf("[CERTIFICATE-SCHEDULER] Sweep complete, %d certificates issued", issued)
}
