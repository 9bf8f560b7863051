package jobs

import (
	"context"
	"log/slog"
	"sync"

	"deliveryconfirm/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRelaySchedule runs the relay every five seconds.
const DefaultRelaySchedule = "*/5 * * * * *"

// RelayHandler publishes one batch of pending delivery events.
type RelayHandler interface {
	Handle(ctx context.Context, cmd commands.RelayDeliveryEventsCommand) (int, error)
}

// DeliveryEventsRelayJob drains the delivery event outbox on a cron schedule.
// A run still in progress when the next one is due is skipped.
type DeliveryEventsRelayJob struct {
	handler  RelayHandler
	cmd      commands.RelayDeliveryEventsCommand
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewDeliveryEventsRelayJob creates the job. schedule is a six-field cron
// expression (seconds first); an empty one means DefaultRelaySchedule.
func NewDeliveryEventsRelayJob(
	handler RelayHandler,
	cmd commands.RelayDeliveryEventsCommand,
	schedule string,
	logger *slog.Logger,
) *DeliveryEventsRelayJob {
	if schedule == "" {
		schedule = DefaultRelaySchedule
	}

	return &DeliveryEventsRelayJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "delivery_events_relay_job"),
	}
}

// Start schedules the relay. Runs use a context cancelled by Stop.
func (j *DeliveryEventsRelayJob) Start() error {
	ctx, cancel := context.WithCancel(context.Background())

	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(ctx) }); err != nil {
		cancel()
		return err
	}

	j.mu.Lock()
	j.cancel = cancel
	j.mu.Unlock()

	j.cron.Start()
	j.logger.InfoContext(ctx, "Delivery events relay job started", "schedule", j.schedule)
	return nil
}

// RunOnce relays a single batch and logs the outcome.
func (j *DeliveryEventsRelayJob) RunOnce(ctx context.Context) {
	published, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Delivery events relay failed", "published", published, "error", err)
		return
	}

	if published > 0 {
		j.logger.InfoContext(ctx, "Delivery events relayed", "published", published)
	}
}

// Stop cancels the running batch and waits for it to return.
func (j *DeliveryEventsRelayJob) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.mu.Unlock()

	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Delivery events relay job stopped")
}
