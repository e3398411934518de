package pipeline

import (
	"testing"
	"time"

	"github.com/docsift/docsift/internal/report"
)

func newTestJob(id string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := newTestJob("job-1")

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusRanking, "ranking"},
		{StatusReporting, "reporting"},
		{StatusCompleted, "done"},
	}
	for _, tr := range transitions {
		job.SetStatus(tr.status, tr.phase)
		snap := job.Snapshot()
		if snap.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, snap.Status)
		}
		if snap.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, snap.Phase)
		}
	}
}

func TestJob_SetStatusUpdatesTimestamp(t *testing.T) {
	job := newTestJob("job-1")
	before := job.UpdatedAt
	time.Sleep(5 * time.Millisecond)
	job.SetStatus(StatusParsing, "parsing")
	if !job.UpdatedAt.After(before) {
		t.Error("expected UpdatedAt to advance on status change")
	}
}

func TestJob_AddError(t *testing.T) {
	job := newTestJob("job-1")

	job.AddError("broken.pdf: parse failed")
	job.AddError("other.pdf: unreadable")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "broken.pdf: parse failed" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_ProgressCounters(t *testing.T) {
	job := newTestJob("job-1")

	job.SetTotalDocuments(3)
	job.IncrDocumentsParsed()
	job.IncrDocumentsParsed()
	job.AddSections(4)
	job.AddSections(2)
	job.SetSectionsRanked(5)

	snap := job.Snapshot()
	if snap.Progress.TotalDocuments != 3 {
		t.Errorf("expected 3 total documents, got %d", snap.Progress.TotalDocuments)
	}
	if snap.Progress.DocumentsParsed != 2 {
		t.Errorf("expected 2 parsed documents, got %d", snap.Progress.DocumentsParsed)
	}
	if snap.Progress.SectionsExtracted != 6 {
		t.Errorf("expected 6 extracted sections, got %d", snap.Progress.SectionsExtracted)
	}
	if snap.Progress.SectionsRanked != 5 {
		t.Errorf("expected 5 ranked sections, got %d", snap.Progress.SectionsRanked)
	}
}

func TestJob_SnapshotErrorsNeverNil(t *testing.T) {
	job := newTestJob("job-1")
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestJob_FilesRoundTrip(t *testing.T) {
	job := newTestJob("job-1")
	files := []DocumentFile{
		{Name: "a.pdf", Data: []byte("pdf bytes")},
		{Name: "b.txt", Data: []byte("text bytes")},
	}
	job.SetFiles(files)

	got := job.Files()
	if len(got) != 2 || got[0].Name != "a.pdf" || got[1].Name != "b.txt" {
		t.Errorf("unexpected files %+v", got)
	}
}

func TestJob_ResultRoundTrip(t *testing.T) {
	job := newTestJob("job-1")
	if job.Result() != nil {
		t.Error("expected nil result before completion")
	}
	r := &report.Report{}
	job.SetResult(r)
	if job.Result() != r {
		t.Error("expected stored result back")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)

	job := newTestJob("job-1")
	store.Put(job)

	if got := store.Get("job-1"); got != job {
		t.Error("expected stored job back")
	}
	if got := store.Get("missing"); got != nil {
		t.Error("expected nil for unknown job id")
	}
}

func TestJobStore_CleanupEvictsExpired(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)

	stale := newTestJob("stale")
	stale.UpdatedAt = time.Now().Add(-time.Minute)
	store.Put(stale)

	fresh := newTestJob("fresh")
	store.Put(fresh)

	store.Cleanup()

	if store.Get("stale") != nil {
		t.Error("expected stale job to be evicted")
	}
	if store.Get("fresh") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Cleanup() // must not panic on an empty store
}
