package domain

// SyncStatus describes how a single instrument fared during a sync pass.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusSkipped SyncStatus = "skipped"
	SyncStatusError   SyncStatus = "error"
)

// InstrumentSync is the per-instrument outcome of a bootstrap or
// incremental update pass. A failed instrument never aborts the run.
type InstrumentSync struct {
	InstrumentKey string
	Status        SyncStatus
	Points        int
	Err           error
}
