package jobs

// Outcome is the merge decision for one upstream record against the local
// store.
type Outcome string

const (
	OutcomeCreate Outcome = "create"
	OutcomeUpdate Outcome = "update"
	OutcomeSkip   Outcome = "skip"
)

// Reconcile decides what to do with an upstream record. A missing local row
// is always created; an existing one is only overwritten under force.
func Reconcile(exists bool, force bool) Outcome {
	if !exists {
		return OutcomeCreate
	}
	if force {
		return OutcomeUpdate
	}
	return OutcomeSkip
}

// SyncResult tallies one synchronizer run.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
	Errored int
}

// Total returns the number of records examined.
func (r *SyncResult) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Errored
}

func (r *SyncResult) count(outcome Outcome) {
	switch outcome {
	case OutcomeCreate:
		r.Created++
	case OutcomeUpdate:
		r.Updated++
	case OutcomeSkip:
		r.Skipped++
	}
}
