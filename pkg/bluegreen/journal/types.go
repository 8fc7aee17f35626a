// Package journal records every operation the toolkit performs against a
// project or cluster, backed by BadgerDB.
package journal

import "time"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Entry is a single journal record. Subject identifies what was acted on:
// a manifest key (namespace/Kind/name), a rollout name, or a file path.
type Entry struct {
	ID      string            `json:"id"`
	Time    time.Time         `json:"time"`
	Level   Level             `json:"level"`
	Op      string            `json:"op"`
	Subject string            `json:"subject,omitempty"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Filters struct {
	Subject string
	Op      string
	Level   Level
	Since   time.Time
	Until   time.Time
	Limit   int
	Offset  int
}
