package moderation

// Status is the review state of a spreadsheet row. The sheet itself has no
// status column; the row store adapter maps background colors to and from
// these values.
type Status int

const (
	StatusUnknown Status = iota
	StatusUnreviewed
	StatusApproved
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusUnreviewed:
		return "unreviewed"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Row is one submission row as read from the row store.
type Row struct {
	Index  int
	Text   string
	Status Status
}
