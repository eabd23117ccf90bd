package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/types"
)

type AssessmentRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.RiskAssessment) error
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) (*types.RiskAssessment, error)
	ListLatest(ctx context.Context, tx *gorm.DB) ([]*types.RiskAssessment, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{
		db:  db,
		log: baseLog.With("repo", "AssessmentRepo"),
	}
}

// Upsert overwrites the per-student latest assessment row.
func (r *assessmentRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.RiskAssessment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.StudentID == "" {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"id", "category_scores", "overall_risk", "overall_risk_level",
				"confidence", "factors_analyzed", "created_at",
			}),
		}).
		Create(row).Error
}

func (r *assessmentRepo) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) (*types.RiskAssessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == "" {
		return nil, nil
	}
	var row types.RiskAssessment
	err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *assessmentRepo) ListLatest(ctx context.Context, tx *gorm.DB) ([]*types.RiskAssessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.RiskAssessment
	if err := transaction.WithContext(ctx).Order("overall_risk DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assessmentRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).Model(&types.RiskAssessment{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
