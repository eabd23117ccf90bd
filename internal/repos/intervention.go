package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/types"
)

type InterventionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Intervention) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Intervention, error)
	Save(ctx context.Context, tx *gorm.DB, row *types.Intervention) error
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.Intervention, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, status string) ([]*types.Intervention, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Intervention, error)
	CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error)
}

type interventionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterventionRepo(db *gorm.DB, baseLog *logger.Logger) InterventionRepo {
	return &interventionRepo{
		db:  db,
		log: baseLog.With("repo", "InterventionRepo"),
	}
}

func (r *interventionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Intervention) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *interventionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Intervention, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Intervention
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
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

func (r *interventionRepo) Save(ctx context.Context, tx *gorm.DB, row *types.Intervention) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *interventionRepo) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*types.Intervention, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.Intervention
	err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *interventionRepo) ListByStatus(ctx context.Context, tx *gorm.DB, status string) ([]*types.Intervention, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.Intervention
	err := transaction.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *interventionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Intervention, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.Intervention
	if err := transaction.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *interventionRepo) CountByStatus(ctx context.Context, tx *gorm.DB, status string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.Intervention{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
