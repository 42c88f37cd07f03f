package domain

// PackStatus is the outcome of one tagpack in an ingestion run.
type PackStatus string

const (
	PackAccepted PackStatus = "accepted"
	PackRejected PackStatus = "rejected"
	PackFailed   PackStatus = "failed"
)

// PackReport is the per-pack summary an ingestion run ends with: accepted,
// rejected with reasons, or failed to store. One report per pack; a failure
// never silently aborts the rest of the batch.
type PackReport struct {
	Location     string
	Source       string
	Title        string
	Version      int
	Status       PackStatus
	TagsIngested int
	TagsSkipped  int
	Validation   *ValidationReport
	Err          error
}

// BatchReport aggregates the per-pack reports of one ingestion run.
type BatchReport struct {
	Packs []PackReport
}

// Accepted counts packs that were committed.
func (b *BatchReport) Accepted() int {
	return b.count(PackAccepted)
}

// Rejected counts packs refused by validation.
func (b *BatchReport) Rejected() int {
	return b.count(PackRejected)
}

// Failed counts packs that hit parse or storage errors.
func (b *BatchReport) Failed() int {
	return b.count(PackFailed)
}

func (b *BatchReport) count(status PackStatus) int {
	n := 0
	for _, p := range b.Packs {
		if p.Status == status {
			n++
		}
	}
	return n
}
