package models

import (
	"time"

	"gorm.io/datatypes"
)

// StoredReport mirrors the summary fields of an exported PDF.
type StoredReport struct {
	ID            string     `gorm:"primaryKey" json:"id"`
	InterviewID   string     `gorm:"uniqueIndex;not null" json:"interviewId"`
	FileName      string     `gorm:"not null" json:"fileName"`
	GeneratedDate time.Time  `gorm:"index" json:"generatedDate"`
	Role          string     `json:"role"`
	Category      string     `json:"category"`
	Score         int        `json:"score"`
	SecurityScore int        `json:"securityScore"`
	Duration      int        `json:"duration"`
	Difficulty    string     `json:"difficulty"`
	Tags          []string   `gorm:"serializer:json" json:"tags"`
	Starred       bool       `gorm:"not null;default:false" json:"starred"`
	FileSize      string     `json:"fileSize"`
	FilePath      string     `json:"-"`
	DownloadCount int        `gorm:"not null;default:0" json:"downloadCount"`
	LastAccessed  *time.Time `json:"lastAccessed,omitempty"`
}

// Setting is one persisted preference blob.
type Setting struct {
	Key       string         `gorm:"primaryKey;column:setting_key" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
