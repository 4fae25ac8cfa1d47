package db

import "time"

// FileAction records how a file was last touched
type FileAction string

const (
	FileActionRead  FileAction = "read"
	FileActionWrite FileAction = "write"
)

// RecentFile is a file the page read or wrote
type RecentFile struct {
	Path       string     `json:"path"`
	Filename   string     `json:"filename"`
	Action     FileAction `json:"action"`
	AccessedAt time.Time  `json:"accessed_at"`
}
