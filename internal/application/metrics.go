package application

import "expvar"

// Counters published under /debug/vars.
var (
	metricConflicts        = expvar.NewInt("scheduling_conflicts")
	metricSyncFailures     = expvar.NewInt("sync_failures")
	metricRepairsQueued    = expvar.NewInt("sync_repairs_published")
	metricRepairsApplied   = expvar.NewInt("sync_repairs_applied")
	metricRepairsAbandoned = expvar.NewInt("sync_repairs_abandoned")
)
