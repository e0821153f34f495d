// Package history records finished builds so past invocations can be
// inspected and replayed. Backends: a JSONL file for CLI use and
// MongoDB for server deployments.
package history

import (
	"context"
	"time"

	"github.com/colcontools/wsman/pkg/colcon"
)

// Record is one finished build.
type Record struct {
	JobID      string        `json:"job_id" bson:"job_id"`
	Workspace  string        `json:"workspace" bson:"workspace"`
	Packages   []string      `json:"packages" bson:"packages"`
	BuildType  string        `json:"build_type,omitempty" bson:"build_type,omitempty"`
	ExitCode   int           `json:"exit_code" bson:"exit_code"`
	Canceled   bool          `json:"canceled,omitempty" bson:"canceled,omitempty"`
	Duration   time.Duration `json:"duration" bson:"duration"`
	StartedAt  time.Time     `json:"started_at" bson:"started_at"`
	FinishedAt time.Time     `json:"finished_at" bson:"finished_at"`
}

// FromResult converts a build result into a record.
func FromResult(workspace string, opts colcon.BuildOptions, res *colcon.Result, finishedAt time.Time) Record {
	return Record{
		JobID:      res.JobID,
		Workspace:  workspace,
		Packages:   res.Packages,
		BuildType:  opts.BuildType,
		ExitCode:   res.ExitCode,
		Canceled:   res.Canceled,
		Duration:   res.Duration,
		StartedAt:  finishedAt.Add(-res.Duration),
		FinishedAt: finishedAt,
	}
}

// Store persists build records.
type Store interface {
	// Append adds a record.
	Append(ctx context.Context, rec Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
