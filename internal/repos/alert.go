package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/types"
)

// AlertFilter applies equality filters on the provided fields only.
type AlertFilter struct {
	Level     string
	Type      string
	StudentID string
	Since     time.Time
	Limit     int
}

type AlertRepo interface {
	CreateMany(ctx context.Context, tx *gorm.DB, rows []*types.RiskAlert) error
	Query(ctx context.Context, tx *gorm.DB, f AlertFilter) ([]*types.RiskAlert, error)
	ExistsSameDay(ctx context.Context, tx *gorm.DB, studentID, alertType string, at time.Time) (bool, error)
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByLevelSince(ctx context.Context, tx *gorm.DB, since time.Time) (map[string]int64, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	return &alertRepo{
		db:  db,
		log: baseLog.With("repo", "AlertRepo"),
	}
}

func (r *alertRepo) CreateMany(ctx context.Context, tx *gorm.DB, rows []*types.RiskAlert) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(rows).Error
}

func (r *alertRepo) Query(ctx context.Context, tx *gorm.DB, f AlertFilter) ([]*types.RiskAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Model(&types.RiskAlert{})
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if !f.Since.IsZero() {
		q = q.Where("created_at >= ?", f.Since)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	var rows []*types.RiskAlert
	if err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ExistsSameDay reports whether an alert of the given type already exists for
// the student on the UTC calendar day containing `at`. Used to keep repeated
// analyze calls from flooding the store with duplicates.
func (r *alertRepo) ExistsSameDay(ctx context.Context, tx *gorm.DB, studentID, alertType string, at time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	day := at.UTC().Truncate(24 * time.Hour)
	var n int64
	err := transaction.WithContext(ctx).Model(&types.RiskAlert{}).
		Where("student_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
			studentID, alertType, day, day.Add(24*time.Hour)).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *alertRepo) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&types.RiskAlert{})
	return res.RowsAffected, res.Error
}

func (r *alertRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(ctx).Model(&types.RiskAlert{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *alertRepo) CountByLevelSince(ctx context.Context, tx *gorm.DB, since time.Time) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	type bucket struct {
		Level string
		N     int64
	}
	var buckets []bucket
	q := transaction.WithContext(ctx).Model(&types.RiskAlert{}).
		Select("level, count(*) as n")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Group("level").Scan(&buckets).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		out[b.Level] = b.N
	}
	return out, nil
}
