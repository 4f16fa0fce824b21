package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Conversion tracks one submitted document conversion from intake to
// its terminal state. LastError carries the most recent failure
// message, or the reason a conversion was dropped.
type Conversion struct {
	ID        string
	SourceURL string
	SourceRef string
	Status    string // "queued", "processing", "completed", "dropped", "failed"
	ProfileID string
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is one normalized profile document produced by a completed
// conversion. DocumentJSON holds the serialized document verbatim;
// BlobPath points at the exported JSON artifact, if any.
type Profile struct {
	ID           string
	ConversionID string
	SourceRef    string
	DocumentJSON string
	BlobPath     string
	CreatedAt    time.Time
}

type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}
