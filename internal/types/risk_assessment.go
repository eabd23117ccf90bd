package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RiskAssessment is the latest computed risk snapshot for a student. The row
// is overwritten per student on recomputation, never versioned.
type RiskAssessment struct {
	ID               uuid.UUID                               `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID        string                                  `gorm:"column:student_id;not null;uniqueIndex" json:"student_id"`
	CategoryScores   datatypes.JSONType[map[string]float64]  `gorm:"type:jsonb;column:category_scores" json:"category_scores"`
	OverallRisk      float64                                 `gorm:"column:overall_risk;not null" json:"overall_risk"`
	OverallRiskLevel string                                  `gorm:"column:overall_risk_level;not null" json:"overall_risk_level"`
	Confidence       float64                                 `gorm:"column:confidence;not null" json:"confidence"`
	FactorsAnalyzed  int                                     `gorm:"column:factors_analyzed;not null" json:"factors_analyzed"`
	CreatedAt        time.Time                               `gorm:"not null;default:now()" json:"timestamp"`
}

func (RiskAssessment) TableName() string { return "risk_assessment" }

// Scores is a convenience accessor over the JSON column.
func (a *RiskAssessment) Scores() map[string]float64 {
	return a.CategoryScores.Data()
}
