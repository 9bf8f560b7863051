// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
// DeliveryEventsRelayJob publishes delivered events recorded in the outbox
// table. It runs RelayDeliveryEventsCommand on a six-field cron schedule
// (DefaultRelaySchedule, every five seconds) and skips a tick while the
// previous batch is still running. Events whose publish failed stay in the
// outbox and are retried on the next tick.
//
// # Usage
//
//	relay := jobs.NewDeliveryEventsRelayJob(relayHandler, relayCmd, cfg.OutboxRelaySchedule, logger)
//	jobManager := jobs.NewJobManager(relay)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
