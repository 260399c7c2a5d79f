package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vocalhire/interview/internal/models"
)

// MemoryStore keeps everything in process memory. It is used when no database
// is configured and is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	interviews map[string]models.InterviewRecord
	reports    map[string]models.StoredReport
	settings   map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		interviews: make(map[string]models.InterviewRecord),
		reports:    make(map[string]models.StoredReport),
		settings:   make(map[string]json.RawMessage),
	}
	for _, r := range SampleInterviews(time.Now()) {
		s.interviews[r.ID] = r
	}
	return s
}

func (s *MemoryStore) CreateInterview(_ context.Context, record *models.InterviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now()
	record.CreatedAt, record.UpdatedAt = now, now
	s.interviews[record.ID] = cloneRecord(*record)
	return nil
}

func (s *MemoryStore) UpdateInterview(_ context.Context, record *models.InterviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.interviews[record.ID]
	if !ok {
		return ErrNotFound
	}
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = time.Now()
	s.interviews[record.ID] = cloneRecord(*record)
	return nil
}

func (s *MemoryStore) GetInterview(_ context.Context, id string) (*models.InterviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := cloneRecord(r)
	return &c, nil
}

func (s *MemoryStore) ListInterviews(_ context.Context) ([]models.InterviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InterviewRecord, 0, len(s.interviews))
	for _, r := range s.interviews {
		out = append(out, cloneRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) ListUnarchived(_ context.Context, limit int) ([]models.InterviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	archived := make(map[string]bool, len(s.reports))
	for _, rep := range s.reports {
		archived[rep.InterviewID] = true
	}
	var out []models.InterviewRecord
	for _, r := range s.interviews {
		if r.Status == models.StatusCompleted && !archived[r.ID] {
			out = append(out, cloneRecord(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SaveFeedback(_ context.Context, interviewID string, feedback *models.DetailedFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.interviews[interviewID]
	if !ok {
		return ErrNotFound
	}
	f := *feedback
	r.DetailedFeedback = &f
	r.UpdatedAt = time.Now()
	s.interviews[interviewID] = r
	return nil
}

func (s *MemoryStore) CreateReport(_ context.Context, report *models.StoredReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reports {
		if existing.InterviewID == report.InterviewID {
			return ErrConflict
		}
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	s.reports[report.ID] = *report
	return nil
}

func (s *MemoryStore) ListReports(_ context.Context) ([]models.StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StoredReport, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedDate.After(out[j].GeneratedDate) })
	return out, nil
}

func (s *MemoryStore) GetReport(_ context.Context, id string) (*models.StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) FindReportByInterview(_ context.Context, interviewID string) (*models.StoredReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.StoredReport
	for _, r := range s.reports {
		if r.InterviewID != interviewID {
			continue
		}
		if found == nil || r.GeneratedDate.After(found.GeneratedDate) {
			r := r
			found = &r
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (s *MemoryStore) SetReportStarred(_ context.Context, id string, starred bool) (*models.StoredReport, error) {
	return s.mutateReport(id, func(r *models.StoredReport) { r.Starred = starred })
}

func (s *MemoryStore) RecordReportAccess(_ context.Context, id string) (*models.StoredReport, error) {
	return s.mutateReport(id, func(r *models.StoredReport) {
		now := time.Now()
		r.DownloadCount++
		r.LastAccessed = &now
	})
}

func (s *MemoryStore) mutateReport(id string, fn func(*models.StoredReport)) (*models.StoredReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(&r)
	s.reports[id] = r
	return &r, nil
}

func (s *MemoryStore) DeleteReport(_ context.Context, id string) (*models.StoredReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.reports, id)
	return &r, nil
}

func (s *MemoryStore) GetSetting(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append(json.RawMessage(nil), v...), nil
}

func (s *MemoryStore) PutSetting(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = append(json.RawMessage(nil), value...)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }
