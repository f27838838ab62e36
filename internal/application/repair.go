package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// RepairOutcome tells the queue consumer what to do with a delivered job.
type RepairOutcome int

const (
	RepairDone   RepairOutcome = iota // ack
	RepairRetry                       // republish after the returned delay
	RepairGiveUp                      // park on the dead queue
	RepairDrop                        // unreadable; discard
)

func (o RepairOutcome) String() string {
	switch o {
	case RepairDone:
		return "done"
	case RepairRetry:
		return "retry"
	case RepairGiveUp:
		return "give_up"
	default:
		return "drop"
	}
}

// RetryPolicy bounds redelivery of failing repair jobs. Delays double per
// attempt from BaseDelay up to MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Delay is the wait before retry number attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// RepairRunner applies queued SyncJobs and decides their fate on failure.
type RepairRunner struct {
	Sync   *Synchronizer
	Policy RetryPolicy
	Logger *logrus.Logger
}

func NewRepairRunner(sync *Synchronizer, policy RetryPolicy, logger *logrus.Logger) *RepairRunner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &RepairRunner{Sync: sync, Policy: policy, Logger: logger}
}

// Handle runs one delivery. attempts is how many times the job already
// failed. The returned delay is only meaningful for RepairRetry.
func (r *RepairRunner) Handle(ctx context.Context, body []byte, attempts int) (RepairOutcome, time.Duration) {
	var job SyncJob
	if err := json.Unmarshal(body, &job); err != nil {
		r.Logger.WithError(err).Warn("bad sync message")
		return RepairDrop, 0
	}
	fields := logrus.Fields{"op": job.Op, "user_id": job.UserID, "event_id": job.EventID, "attempts": attempts}

	err := r.Sync.Apply(ctx, job)
	if err == nil {
		r.Logger.WithFields(fields).Info("sync repair applied")
		return RepairDone, 0
	}
	if attempts+1 >= r.Policy.MaxAttempts {
		metricRepairsAbandoned.Add(1)
		r.Logger.WithError(err).WithFields(fields).Error("sync repair abandoned")
		return RepairGiveUp, 0
	}
	delay := r.Policy.Delay(attempts + 1)
	r.Logger.WithError(err).WithFields(fields).WithField("retry_in", delay.String()).Warn("sync repair failed")
	return RepairRetry, delay
}
