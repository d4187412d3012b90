package domain

// IndexState is the lifecycle state of the index snapshot.
type IndexState int

const (
	// IndexUninitialized means no snapshot has been loaded or built.
	IndexUninitialized IndexState = iota

	// IndexEmpty means a snapshot exists but holds zero memos.
	IndexEmpty

	// IndexReady means a snapshot with at least one memo is loaded.
	IndexReady
)

// String returns the string representation.
func (s IndexState) String() string {
	switch s {
	case IndexUninitialized:
		return "uninitialized"
	case IndexEmpty:
		return "empty"
	case IndexReady:
		return "ready"
	default:
		return "unknown"
	}
}

// IndexStatus describes the coordinator's current snapshot.
type IndexStatus struct {
	State      IndexState `json:"-"`
	StateName  string     `json:"state"`
	Records    int        `json:"records"`
	Dimensions int        `json:"dimensions"`
	Model      string     `json:"model"`
}

// ReconcileReport summarises a reconcile run.
type ReconcileReport struct {
	// Added is the number of memos appended to the snapshot.
	Added int `json:"added"`

	// Skipped lists store locations that failed to parse.
	Skipped []string `json:"skipped,omitempty"`

	// Total is the snapshot size after the run.
	Total int `json:"total"`

	// Full is true when the snapshot was rebuilt from scratch.
	Full bool `json:"full"`
}
