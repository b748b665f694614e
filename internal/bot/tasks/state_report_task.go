package tasks

import "context"

// newStateReportTask creates the scheduled task that logs the size of the
// in-memory conversation cache and strike table. The cache has no eviction
// policy, so this report is the operator's visibility into its growth.
func newStateReportTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "state_report")

	return func(ctx context.Context) error {
		cacheUsers, cacheEntries := deps.CacheStats.Stats()
		strikeUsers, strikeTotal := deps.StrikeStats.Stats()

		log.InfoContext(ctx, "In-memory state report",
			"cache_users", cacheUsers,
			"cache_entries", cacheEntries,
			"struck_users", strikeUsers,
			"total_strikes", strikeTotal,
		)
		return nil
	}
}
