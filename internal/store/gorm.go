package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vocalhire/interview/internal/models"
)

// PostgresConfig is read from the POSTGRES_* environment variables.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// OpenPostgres connects to PostgreSQL.
func OpenPostgres(cfg PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// GormStore persists state through gorm.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormStore migrates the schema and seeds the sample interviews when absent.
func NewGormStore(ctx context.Context, db *gorm.DB, logger *zap.Logger) (*GormStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&models.InterviewRecord{}, &models.StoredReport{}, &models.Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	samples := SampleInterviews(time.Now())
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&samples)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to seed sample interviews: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Info("Seeded sample interviews", zap.Int64("count", res.RowsAffected))
	}
	return &GormStore{db: db, logger: logger}, nil
}

func (s *GormStore) CreateInterview(ctx context.Context, record *models.InterviewRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateInterview(ctx context.Context, record *models.InterviewRecord) error {
	res := s.db.WithContext(ctx).Model(record).Select("*").Omit("created_at").Updates(record)
	if res.Error != nil {
		return fmt.Errorf("failed to update interview %s: %w", record.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetInterview(ctx context.Context, id string) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "interview "+id)
	}
	return &record, nil
}

func (s *GormStore) ListInterviews(ctx context.Context) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return records, nil
}

func (s *GormStore) ListUnarchived(ctx context.Context, limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	archived := s.db.Model(&models.StoredReport{}).Select("interview_id")
	query := s.db.WithContext(ctx).
		Where("status = ?", models.StatusCompleted).
		Where("id NOT IN (?)", archived).
		Order("date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list unarchived interviews: %w", err)
	}
	return records, nil
}

func (s *GormStore) SaveFeedback(ctx context.Context, interviewID string, feedback *models.DetailedFeedback) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.InterviewRecord
		if err := tx.First(&record, "id = ?", interviewID).Error; err != nil {
			return notFound(err, "interview "+interviewID)
		}
		record.DetailedFeedback = feedback
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to save feedback for %s: %w", interviewID, err)
		}
		return nil
	})
}

func (s *GormStore) CreateReport(ctx context.Context, report *models.StoredReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.StoredReport{}).Where("interview_id = ?", report.InterviewID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		return tx.Create(report).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return fmt.Errorf("failed to create report: %w", err)
}

func (s *GormStore) ListReports(ctx context.Context) ([]models.StoredReport, error) {
	var reports []models.StoredReport
	if err := s.db.WithContext(ctx).Order("generated_date DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *GormStore) GetReport(ctx context.Context, id string) (*models.StoredReport, error) {
	var report models.StoredReport
	if err := s.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "report "+id)
	}
	return &report, nil
}

func (s *GormStore) FindReportByInterview(ctx context.Context, interviewID string) (*models.StoredReport, error) {
	var report models.StoredReport
	err := s.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("generated_date DESC").
		First(&report).Error
	if err != nil {
		return nil, notFound(err, "report for interview "+interviewID)
	}
	return &report, nil
}

func (s *GormStore) SetReportStarred(ctx context.Context, id string, starred bool) (*models.StoredReport, error) {
	res := s.db.WithContext(ctx).Model(&models.StoredReport{}).Where("id = ?", id).Update("starred", starred)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update report %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetReport(ctx, id)
}

func (s *GormStore) RecordReportAccess(ctx context.Context, id string) (*models.StoredReport, error) {
	res := s.db.WithContext(ctx).Model(&models.StoredReport{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"download_count": gorm.Expr("download_count + 1"),
			"last_accessed":  time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to record access for report %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetReport(ctx, id)
}

func (s *GormStore) DeleteReport(ctx context.Context, id string) (*models.StoredReport, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.StoredReport{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return report, nil
}

func (s *GormStore) GetSetting(ctx context.Context, key string) (json.RawMessage, error) {
	var setting models.Setting
	if err := s.db.WithContext(ctx).First(&setting, "setting_key = ?", key).Error; err != nil {
		return nil, notFound(err, "setting "+key)
	}
	return json.RawMessage(setting.Value), nil
}

func (s *GormStore) PutSetting(ctx context.Context, key string, value json.RawMessage) error {
	setting := models.Setting{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
