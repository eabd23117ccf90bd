package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/observability"
	"github.com/bgeheroes/risk-backend/internal/repos"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

type AlertQuery struct {
	Level     string
	Type      string
	StudentID string
	Limit     int
}

type AlertSummary struct {
	Total   int64            `json:"total"`
	ByLevel map[string]int64 `json:"by_level"`
}

type AlertService interface {
	// Record persists freshly generated alerts, dropping any that duplicate
	// an alert of the same (student, type) from the same UTC day, and sweeps
	// expired alerts past the retention window. Returns the alerts kept.
	Record(ctx context.Context, tx *gorm.DB, alerts []*types.RiskAlert) ([]*types.RiskAlert, error)
	Query(ctx context.Context, q AlertQuery) ([]*types.RiskAlert, *AlertSummary, error)
}

type alertService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       *riskconfig.Config
	alertRepo repos.AlertRepo
	metrics   *observability.Metrics
}

func NewAlertService(db *gorm.DB, log *logger.Logger, cfg *riskconfig.Config, alertRepo repos.AlertRepo, metrics *observability.Metrics) AlertService {
	return &alertService{
		db:        db,
		log:       log.With("service", "AlertService"),
		cfg:       cfg,
		alertRepo: alertRepo,
		metrics:   metrics,
	}
}

func (s *alertService) Record(ctx context.Context, tx *gorm.DB, alerts []*types.RiskAlert) ([]*types.RiskAlert, error) {
	if len(alerts) == 0 {
		return nil, nil
	}
	kept := make([]*types.RiskAlert, 0, len(alerts))
	for _, a := range alerts {
		exists, err := s.alertRepo.ExistsSameDay(ctx, tx, a.StudentID, a.Type, a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("alert dedup check: %w", err)
		}
		if exists {
			s.log.Debug("Skipping duplicate same-day alert", "student_id", a.StudentID, "type", a.Type)
			continue
		}
		kept = append(kept, a)
	}
	if err := s.alertRepo.CreateMany(ctx, tx, kept); err != nil {
		return nil, fmt.Errorf("persist alerts: %w", err)
	}
	if s.metrics != nil {
		for _, a := range kept {
			s.metrics.AlertsCreated.WithLabelValues(a.Level).Inc()
		}
	}
	s.sweep(ctx, tx)
	return kept, nil
}

// sweep bounds store growth; failures are logged, never surfaced, so a
// retention hiccup cannot fail an analyze call.
func (s *alertService) sweep(ctx context.Context, tx *gorm.DB) {
	if s.cfg.AlertRetentionDays <= 0 {
		return
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.AlertRetentionDays)
	n, err := s.alertRepo.DeleteOlderThan(ctx, tx, cutoff)
	if err != nil {
		s.log.Warn("Alert retention sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.log.Info("Alert retention sweep removed expired alerts", "removed", n)
	}
}

func (s *alertService) Query(ctx context.Context, q AlertQuery) ([]*types.RiskAlert, *AlertSummary, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.cfg.AlertQueryLimit
	}
	rows, err := s.alertRepo.Query(ctx, nil, repos.AlertFilter{
		Level:     q.Level,
		Type:      q.Type,
		StudentID: q.StudentID,
		Limit:     limit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("query alerts: %w", err)
	}
	total, err := s.alertRepo.Count(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("count alerts: %w", err)
	}
	byLevel, err := s.alertRepo.CountByLevelSince(ctx, nil, time.Time{})
	if err != nil {
		return nil, nil, fmt.Errorf("alert level breakdown: %w", err)
	}
	return rows, &AlertSummary{Total: total, ByLevel: byLevel}, nil
}
