package domain

import "time"

// SyncStats holds statistics about a sync operation.
type SyncStats struct {
	SubscriptionID int64
	Fetched        int
	New            int
	Skipped        int
	Errors         int
	Published      int
	NotModified    bool
	Duration       time.Duration
}
