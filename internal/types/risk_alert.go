package types

import (
	"time"

	"github.com/google/uuid"
)

// RiskAlert is immutable once created. Type is a category key or "overall".
type RiskAlert struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID          string    `gorm:"column:student_id;not null;index" json:"student_id"`
	Type               string    `gorm:"column:type;not null;index" json:"type"`
	Level              string    `gorm:"column:level;not null;index" json:"level"`
	Message            string    `gorm:"column:message;not null" json:"message"`
	SourceAssessmentID uuid.UUID `gorm:"type:uuid;column:source_assessment_id" json:"source_assessment_id"`
	CreatedAt          time.Time `gorm:"not null;default:now();index" json:"timestamp"`
}

func (RiskAlert) TableName() string { return "risk_alert" }

const (
	AlertLevelInfo      = "info"
	AlertLevelWarning   = "warning"
	AlertLevelCritical  = "critical"
	AlertLevelEmergency = "emergency"

	AlertTypeOverall = "overall"
)
