package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"vocalhire/interview/internal/metrics"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/report"
	"vocalhire/interview/internal/store"
)

// SessionSweeper ends live sessions nobody is attached to.
type SessionSweeper interface {
	Sweep(maxIdle time.Duration) int
}

// ArchiverConfig controls the scheduled archive run.
type ArchiverConfig struct {
	Schedule      string        // cron spec, e.g. "0 2 * * *"
	ExportDir     string        // where rendered PDFs are written
	ExportEnabled bool          // false leaves only the session sweep running
	BatchSize     int           // interviews archived per run, 0 for all
	SweepSchedule string        // cron spec for the session sweep, empty to disable
	SessionIdle   time.Duration // detached sessions idle this long are ended
}

// ReportArchiveJob renders a PDF for every completed interview that has no
// stored report yet, and periodically sweeps abandoned sessions.
type ReportArchiveJob struct {
	store      store.Store
	sessions   SessionSweeper
	config     *ArchiverConfig
	cron       *cron.Cron
	logger     *zap.Logger
	onRendered func(kind string)
	now        func() time.Time
}

func NewReportArchiveJob(st store.Store, sessions SessionSweeper, config *ArchiverConfig, logger *zap.Logger, onRendered func(kind string)) *ReportArchiveJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	if onRendered == nil {
		onRendered = func(string) {}
	}
	return &ReportArchiveJob{
		store:      st,
		sessions:   sessions,
		config:     config,
		cron:       cron.New(),
		logger:     logger,
		onRendered: onRendered,
		now:        time.Now,
	}
}

// Start schedules the archive and sweep runs.
func (j *ReportArchiveJob) Start() error {
	if j.config.ExportEnabled {
		j.logger.Info("Scheduling report archive", zap.String("schedule", j.config.Schedule))
		_, err := j.cron.AddFunc(j.config.Schedule, func() {
			if _, err := j.RunArchive(context.Background()); err != nil {
				j.logger.Error("Report archive failed", zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("failed to schedule report archive: %w", err)
		}
	} else {
		j.logger.Info("Report archive is disabled, skipping scheduler")
	}

	if j.sessions != nil && j.config.SweepSchedule != "" {
		_, err := j.cron.AddFunc(j.config.SweepSchedule, func() {
			j.RunSweep()
		})
		if err != nil {
			return fmt.Errorf("failed to schedule session sweep: %w", err)
		}
	}

	j.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (j *ReportArchiveJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Report archive stopped")
	}
}

// RunSweep ends abandoned sessions and returns how many were ended.
func (j *ReportArchiveJob) RunSweep() int {
	n := j.sessions.Sweep(j.config.SessionIdle)
	if n > 0 {
		j.logger.Info("Swept abandoned sessions", zap.Int("count", n))
	}
	return n
}

// RunArchive performs one archive pass and returns the reports it stored.
// A failure on one interview is logged and the pass moves on.
func (j *ReportArchiveJob) RunArchive(ctx context.Context) ([]models.StoredReport, error) {
	records, err := j.store.ListUnarchived(ctx, j.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list unarchived interviews: %w", err)
	}
	if len(records) == 0 {
		j.logger.Debug("No interviews to archive")
		return nil, nil
	}

	if err := os.MkdirAll(j.config.ExportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var stored []models.StoredReport
	for _, record := range records {
		rep, err := j.archive(ctx, record)
		if err != nil {
			j.logger.Error("Failed to archive interview", zap.String("interview_id", record.ID), zap.Error(err))
			continue
		}
		if rep == nil {
			continue
		}
		stored = append(stored, *rep)
	}

	j.logger.Info("Report archive finished",
		zap.Int("candidates", len(records)),
		zap.Int("archived", len(stored)),
		zap.String("dir", j.config.ExportDir))
	return stored, nil
}

func (j *ReportArchiveJob) archive(ctx context.Context, record models.InterviewRecord) (*models.StoredReport, error) {
	var buf bytes.Buffer
	if err := report.GenerateInterviewPDF(&buf, record, report.WithClock(j.now)); err != nil {
		return nil, err
	}
	j.onRendered(metrics.PDFInterview)

	rep := report.NewStoredReport(record, int64(buf.Len()), j.now())
	path := filepath.Join(j.config.ExportDir, record.ID+"_"+rep.FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	rep.FilePath = path

	if err := j.store.CreateReport(ctx, &rep); err != nil {
		if errors.Is(err, store.ErrConflict) {
			j.keepArchivedFile(ctx, record.ID, path)
			return nil, nil
		}
		os.Remove(path)
		return nil, fmt.Errorf("failed to record report: %w", err)
	}
	return &rep, nil
}

// keepArchivedFile drops path unless it is the file of the report that won
// the race for this interview.
func (j *ReportArchiveJob) keepArchivedFile(ctx context.Context, interviewID, path string) {
	existing, err := j.store.FindReportByInterview(ctx, interviewID)
	if err == nil && existing.FilePath == path {
		return
	}
	os.Remove(path)
	j.logger.Debug("Interview already archived", zap.String("interview_id", interviewID))
}
