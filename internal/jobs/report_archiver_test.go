package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vocalhire/interview/internal/metrics"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/store"
)

type mockSweeper struct {
	calls   int
	maxIdle time.Duration
	ended   int
}

func (m *mockSweeper) Sweep(maxIdle time.Duration) int {
	m.calls++
	m.maxIdle = maxIdle
	return m.ended
}

func newArchiveJob(t *testing.T, st store.Store, sweeper SessionSweeper) (*ReportArchiveJob, string, *[]string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "reports")
	var kinds []string
	job := NewReportArchiveJob(st, sweeper, &ArchiverConfig{
		Schedule:      "0 2 * * *",
		ExportDir:     dir,
		ExportEnabled: true,
		SessionIdle:   30 * time.Minute,
	}, nil, func(kind string) { kinds = append(kinds, kind) })
	return job, dir, &kinds
}

func TestRunArchive_SeededInterviews(t *testing.T) {
	st := store.NewMemoryStore()
	job, dir, kinds := newArchiveJob(t, st, nil)

	stored, err := job.RunArchive(context.Background())
	if err != nil {
		t.Fatalf("RunArchive returned error: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 archived reports, got %d", len(stored))
	}
	if len(*kinds) != 2 || (*kinds)[0] != metrics.PDFInterview {
		t.Fatalf("expected two interview renders, got %v", *kinds)
	}

	for _, rep := range stored {
		data, err := os.ReadFile(rep.FilePath)
		if err != nil {
			t.Fatalf("expected report file at %s: %v", rep.FilePath, err)
		}
		if !strings.HasPrefix(string(data), "%PDF-") {
			t.Fatalf("expected a PDF document in %s", rep.FilePath)
		}
		if filepath.Dir(rep.FilePath) != dir {
			t.Fatalf("expected report under %s, got %s", dir, rep.FilePath)
		}
	}

	reports, err := st.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports returned error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 stored reports, got %d", len(reports))
	}
}

func TestRunArchive_SkipsArchivedAndLive(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	if err := st.CreateInterview(ctx, &models.InterviewRecord{ID: "live", Role: "Designer", Status: models.StatusInProgress}); err != nil {
		t.Fatalf("CreateInterview returned error: %v", err)
	}
	job, _, _ := newArchiveJob(t, st, nil)

	if _, err := job.RunArchive(ctx); err != nil {
		t.Fatalf("first run returned error: %v", err)
	}
	stored, err := job.RunArchive(ctx)
	if err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected nothing left to archive, got %d", len(stored))
	}
}

// downloadRaceStore archives every candidate through another path right
// after listing it, as a concurrent report download would.
type downloadRaceStore struct {
	*store.MemoryStore
}

func (s downloadRaceStore) ListUnarchived(ctx context.Context, limit int) ([]models.InterviewRecord, error) {
	records, err := s.MemoryStore.ListUnarchived(ctx, limit)
	for _, r := range records {
		_ = s.CreateReport(ctx, &models.StoredReport{InterviewID: r.ID, FileName: "download.pdf", Tags: []string{}})
	}
	return records, err
}

func TestRunArchive_LosesRaceToDownload(t *testing.T) {
	st := downloadRaceStore{store.NewMemoryStore()}
	job, dir, _ := newArchiveJob(t, st, nil)

	stored, err := job.RunArchive(context.Background())
	if err != nil {
		t.Fatalf("RunArchive returned error: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected no new reports, got %d", len(stored))
	}

	reports, err := st.ListReports(context.Background())
	if err != nil {
		t.Fatalf("ListReports returned error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected one report per interview, got %d", len(reports))
	}
	for _, rep := range reports {
		if rep.FileName != "download.pdf" {
			t.Fatalf("expected the download's report to win, got %s", rep.FileName)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected losing PDFs to be removed, found %d files", len(files))
	}
}

func TestRunArchive_BatchSize(t *testing.T) {
	st := store.NewMemoryStore()
	job, _, _ := newArchiveJob(t, st, nil)
	job.config.BatchSize = 1

	stored, err := job.RunArchive(context.Background())
	if err != nil {
		t.Fatalf("RunArchive returned error: %v", err)
	}
	if len(stored) != 1 || stored[0].InterviewID != "sample-2" {
		t.Fatalf("expected the oldest interview first, got %+v", stored)
	}
}

func TestRunSweep(t *testing.T) {
	sweeper := &mockSweeper{ended: 2}
	job, _, _ := newArchiveJob(t, store.NewMemoryStore(), sweeper)

	if n := job.RunSweep(); n != 2 {
		t.Fatalf("expected 2 swept sessions, got %d", n)
	}
	if sweeper.maxIdle != 30*time.Minute {
		t.Fatalf("expected idle threshold to be passed through, got %v", sweeper.maxIdle)
	}
}

func TestStartStop(t *testing.T) {
	job, _, _ := newArchiveJob(t, store.NewMemoryStore(), &mockSweeper{})
	job.config.SweepSchedule = "@every 1h"

	if err := job.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if got := len(job.cron.Entries()); got != 2 {
		t.Fatalf("expected 2 scheduled entries, got %d", got)
	}
	job.Stop()
}

func TestStart_Disabled(t *testing.T) {
	job, _, _ := newArchiveJob(t, store.NewMemoryStore(), nil)
	job.config.ExportEnabled = false

	if err := job.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if got := len(job.cron.Entries()); got != 0 {
		t.Fatalf("expected no scheduled entries, got %d", got)
	}
	job.Stop()
}

func TestStart_InvalidSchedule(t *testing.T) {
	job, _, _ := newArchiveJob(t, store.NewMemoryStore(), nil)
	job.config.Schedule = "not a schedule"

	if err := job.Start(); err == nil {
		t.Fatal("expected an error for an invalid schedule")
	}
}
