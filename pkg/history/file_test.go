package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colcontools/wsman/pkg/colcon"
)

func record(job string, finished time.Time) Record {
	return Record{
		JobID:      job,
		Workspace:  "/ws",
		Packages:   []string{"nav_core"},
		ExitCode:   0,
		Duration:   2 * time.Second,
		StartedAt:  finished.Add(-2 * time.Second),
		FinishedAt: finished,
	}
}

func TestFileStore_AppendAndRecent(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "history", "builds.jsonl"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer store.Close(context.Background())

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, job := range []string{"job-1", "job-2", "job-3"} {
		if err := store.Append(ctx, record(job, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(got))
	}
	if got[0].JobID != "job-3" || got[1].JobID != "job-2" {
		t.Errorf("Recent order = [%s %s], want [job-3 job-2]", got[0].JobID, got[1].JobID)
	}
}

func TestFileStore_RecentEmpty(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "builds.jsonl"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recent on empty store = %v", got)
	}
}

func TestFileStore_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "builds.jsonl")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := store.Append(ctx, record("good", time.Now())); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{corrupt\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].JobID != "good" {
		t.Errorf("Recent = %v, want the one good record", got)
	}
}

func TestFromResult(t *testing.T) {
	finished := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	res := &colcon.Result{
		JobID:    "job-x",
		Packages: []string{"a", "b"},
		ExitCode: 1,
		Duration: 30 * time.Second,
	}
	rec := FromResult("/ws", colcon.BuildOptions{BuildType: colcon.BuildTypeRelease}, res, finished)

	if rec.JobID != "job-x" || rec.ExitCode != 1 {
		t.Errorf("record = %+v", rec)
	}
	if rec.BuildType != colcon.BuildTypeRelease {
		t.Errorf("BuildType = %q", rec.BuildType)
	}
	if !rec.StartedAt.Equal(finished.Add(-30 * time.Second)) {
		t.Errorf("StartedAt = %v", rec.StartedAt)
	}
}
