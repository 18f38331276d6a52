// Package snapshot persists parameter manifests so a host can restore the
// values it was running with.
//
// # Stores
//
// A Store saves and loads manifests by name. Two backends exist:
//
//   - RedisStore keeps each manifest as a YAML string under "params:<name>"
//   - SQLStore keeps them in a param_snapshots table, on SQLite or PostgreSQL
//
// Open picks a backend from a backend name and DSN:
//
//	store, err := snapshot.Open(ctx, "sqlite3", "file:visual.db")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
// # Scheduling
//
// Scheduler saves a snapshot on a cron schedule:
//
//	sched, err := snapshot.NewScheduler("@every 5m", store, "default", handlers.Snapshot, logger)
//	sched.Start()
//	defer sched.Stop()
//
// Load returns an error wrapping verrors.ErrNotFound when nothing has been
// saved under a name yet.
package snapshot
