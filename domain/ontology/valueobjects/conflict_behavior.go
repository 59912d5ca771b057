package valueobjects

// ConflictBehavior governs what CreateEntityType and CreatePropertyType do
// when a version already exists for the submitted base url.
type ConflictBehavior string

const (
	// Skip returns no metadata for the conflicting item and continues the
	// batch.
	Skip ConflictBehavior = "skip"
	// Fail aborts the whole batch.
	Fail ConflictBehavior = "fail"
)
