package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/apierr"
	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/repos"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

type DashboardData struct {
	Timeframe             string             `json:"timeframe"`
	StudentsAssessed      int64              `json:"students_assessed"`
	RiskLevelDistribution map[string]int     `json:"risk_level_distribution"`
	AlertsByLevel         map[string]int64   `json:"alerts_by_level"`
	ActiveInterventions   int64              `json:"active_interventions"`
	FinishedInterventions int64              `json:"finished_interventions"`
	RecentCriticalAlerts  []*types.RiskAlert `json:"recent_critical_alerts"`
	CategoryAverages      map[string]float64 `json:"category_averages"`
}

type StudentProfile struct {
	StudentID     string                `json:"student_id"`
	RiskLevel     string                `json:"risk_level"`
	LastAssessed  *time.Time            `json:"last_assessed,omitempty"`
	Assessment    *types.RiskAssessment `json:"assessment,omitempty"`
	Alerts        []*types.RiskAlert    `json:"alerts"`
	Interventions []*types.Intervention `json:"interventions"`
}

type DashboardService interface {
	Dashboard(ctx context.Context, timeframe string) (*DashboardData, error)
	StudentProfile(ctx context.Context, studentID string) (*StudentProfile, error)
}

type dashboardService struct {
	db               *gorm.DB
	log              *logger.Logger
	cfg              *riskconfig.Config
	assessmentRepo   repos.AssessmentRepo
	alertRepo        repos.AlertRepo
	interventionRepo repos.InterventionRepo
}

func NewDashboardService(db *gorm.DB, log *logger.Logger, cfg *riskconfig.Config, assessmentRepo repos.AssessmentRepo, alertRepo repos.AlertRepo, interventionRepo repos.InterventionRepo) DashboardService {
	return &dashboardService{
		db:               db,
		log:              log.With("service", "DashboardService"),
		cfg:              cfg,
		assessmentRepo:   assessmentRepo,
		alertRepo:        alertRepo,
		interventionRepo: interventionRepo,
	}
}

// ParseTimeframe accepts "24h", "7d", "30d" style windows. Empty means 7d.
func ParseTimeframe(raw string) (time.Duration, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return 7 * 24 * time.Hour, nil
	}
	if strings.HasSuffix(raw, "d") {
		var days int
		if _, err := fmt.Sscanf(raw, "%dd", &days); err != nil || days <= 0 {
			return 0, apierr.Validation("invalid timeframe %q", raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, apierr.Validation("invalid timeframe %q", raw)
	}
	return d, nil
}

func (s *dashboardService) Dashboard(ctx context.Context, timeframe string) (*DashboardData, error) {
	window, err := ParseTimeframe(timeframe)
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC().Add(-window)

	assessments, err := s.assessmentRepo.ListLatest(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list assessments: %w", err))
	}

	levelDist := map[string]int{}
	catSums := map[string]float64{}
	for _, a := range assessments {
		levelDist[a.OverallRiskLevel]++
		for k, v := range a.Scores() {
			catSums[k] += v
		}
	}
	catAvgs := map[string]float64{}
	if len(assessments) > 0 {
		for k, sum := range catSums {
			catAvgs[k] = sum / float64(len(assessments))
		}
	}

	alertsByLevel, err := s.alertRepo.CountByLevelSince(ctx, nil, since)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("alert breakdown: %w", err))
	}

	critical, err := s.alertRepo.Query(ctx, nil, repos.AlertFilter{Level: types.AlertLevelCritical, Limit: 10})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("recent critical alerts: %w", err))
	}

	active, err := s.interventionRepo.CountByStatus(ctx, nil, types.InterventionStatusActive)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("count active interventions: %w", err))
	}
	completed, err := s.interventionRepo.CountByStatus(ctx, nil, types.InterventionStatusCompleted)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("count completed interventions: %w", err))
	}
	closed, err := s.interventionRepo.CountByStatus(ctx, nil, types.InterventionStatusClosed)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("count closed interventions: %w", err))
	}

	return &DashboardData{
		Timeframe:             strings.TrimSpace(timeframe),
		StudentsAssessed:      int64(len(assessments)),
		RiskLevelDistribution: levelDist,
		AlertsByLevel:         alertsByLevel,
		ActiveInterventions:   active,
		FinishedInterventions: completed + closed,
		RecentCriticalAlerts:  critical,
		CategoryAverages:      catAvgs,
	}, nil
}

func (s *dashboardService) StudentProfile(ctx context.Context, studentID string) (*StudentProfile, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apierr.Validation("studentId is required")
	}

	assessment, err := s.assessmentRepo.GetByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("load assessment: %w", err))
	}
	alerts, err := s.alertRepo.Query(ctx, nil, repos.AlertFilter{StudentID: studentID, Limit: s.cfg.AlertQueryLimit})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("load alerts: %w", err))
	}
	interventions, err := s.interventionRepo.ListByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("load interventions: %w", err))
	}

	profile := &StudentProfile{
		StudentID:     studentID,
		RiskLevel:     string(riskconfig.LevelMinimal),
		Alerts:        alerts,
		Interventions: interventions,
	}
	if assessment != nil {
		profile.Assessment = assessment
		profile.RiskLevel = assessment.OverallRiskLevel
		t := assessment.CreatedAt
		profile.LastAssessed = &t
	}
	return profile, nil
}
