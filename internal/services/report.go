package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/apierr"
	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/repos"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
)

const (
	ReportRiskSummary   = "risk-summary"
	ReportInterventions = "interventions"
	ReportAlerts        = "alerts"
	ReportTrends        = "trends"

	ReportFormatJSON = "json"
	ReportFormatCSV  = "csv"
)

// ReportOutput carries either a JSON payload or rendered CSV bytes.
type ReportOutput struct {
	Type        string
	Format      string
	GeneratedAt time.Time
	JSON        interface{}
	CSV         []byte
	Filename    string
}

type ReportService interface {
	Generate(ctx context.Context, reportType, format, period string) (*ReportOutput, error)
}

type reportService struct {
	db               *gorm.DB
	log              *logger.Logger
	cfg              *riskconfig.Config
	assessmentRepo   repos.AssessmentRepo
	alertRepo        repos.AlertRepo
	interventionRepo repos.InterventionRepo
}

func NewReportService(db *gorm.DB, log *logger.Logger, cfg *riskconfig.Config, assessmentRepo repos.AssessmentRepo, alertRepo repos.AlertRepo, interventionRepo repos.InterventionRepo) ReportService {
	return &reportService{
		db:               db,
		log:              log.With("service", "ReportService"),
		cfg:              cfg,
		assessmentRepo:   assessmentRepo,
		alertRepo:        alertRepo,
		interventionRepo: interventionRepo,
	}
}

func (s *reportService) Generate(ctx context.Context, reportType, format, period string) (*ReportOutput, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatJSON
	}
	if format != ReportFormatJSON && format != ReportFormatCSV {
		return nil, apierr.Validation("unknown report format %q", format)
	}
	window, err := ParseTimeframe(periodOrDefault(period))
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC().Add(-window)

	var header []string
	var rows [][]string
	var payload interface{}

	switch strings.ToLower(strings.TrimSpace(reportType)) {
	case ReportRiskSummary:
		header, rows, payload, err = s.riskSummary(ctx)
	case ReportInterventions:
		header, rows, payload, err = s.interventions(ctx)
	case ReportAlerts:
		header, rows, payload, err = s.alerts(ctx, since)
	case ReportTrends:
		header, rows, payload, err = s.trends(ctx, since)
	default:
		return nil, apierr.Validation("unknown report type %q", reportType)
	}
	if err != nil {
		return nil, err
	}

	out := &ReportOutput{
		Type:        reportType,
		Format:      format,
		GeneratedAt: time.Now().UTC(),
		Filename:    fmt.Sprintf("%s-%s.%s", reportType, time.Now().UTC().Format("2006-01-02"), format),
	}
	if format == ReportFormatCSV {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return nil, apierr.Internal(fmt.Errorf("render csv: %w", err))
		}
		if err := w.WriteAll(rows); err != nil {
			return nil, apierr.Internal(fmt.Errorf("render csv: %w", err))
		}
		out.CSV = buf.Bytes()
	} else {
		out.JSON = payload
	}
	return out, nil
}

func periodOrDefault(period string) string {
	if strings.TrimSpace(period) == "" {
		return "30d"
	}
	return period
}

func (s *reportService) riskSummary(ctx context.Context) ([]string, [][]string, interface{}, error) {
	assessments, err := s.assessmentRepo.ListLatest(ctx, nil)
	if err != nil {
		return nil, nil, nil, apierr.Internal(fmt.Errorf("list assessments: %w", err))
	}
	header := []string{"student_id", "overall_risk", "overall_risk_level", "confidence", "factors_analyzed", "assessed_at"}
	rows := make([][]string, 0, len(assessments))
	for _, a := range assessments {
		rows = append(rows, []string{
			a.StudentID,
			strconv.FormatFloat(a.OverallRisk, 'f', 4, 64),
			a.OverallRiskLevel,
			strconv.FormatFloat(a.Confidence, 'f', 4, 64),
			strconv.Itoa(a.FactorsAnalyzed),
			a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return header, rows, assessments, nil
}

func (s *reportService) interventions(ctx context.Context) ([]string, [][]string, interface{}, error) {
	interventions, err := s.interventionRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, nil, nil, apierr.Internal(fmt.Errorf("list interventions: %w", err))
	}
	header := []string{"id", "student_id", "type", "strategy", "priority", "status", "progress", "created_at", "updated_at"}
	rows := make([][]string, 0, len(interventions))
	for _, iv := range interventions {
		rows = append(rows, []string{
			iv.ID.String(),
			iv.StudentID,
			iv.Type,
			iv.Strategy,
			iv.Priority,
			iv.Status,
			strconv.Itoa(iv.Progress),
			iv.CreatedAt.UTC().Format(time.RFC3339),
			iv.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return header, rows, interventions, nil
}

func (s *reportService) alerts(ctx context.Context, since time.Time) ([]string, [][]string, interface{}, error) {
	alerts, err := s.alertRepo.Query(ctx, nil, repos.AlertFilter{Since: since, Limit: 10000})
	if err != nil {
		return nil, nil, nil, apierr.Internal(fmt.Errorf("query alerts: %w", err))
	}
	header := []string{"id", "student_id", "type", "level", "message", "created_at"}
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			a.ID.String(),
			a.StudentID,
			a.Type,
			a.Level,
			a.Message,
			a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return header, rows, alerts, nil
}

type trendPoint struct {
	Day    string         `json:"day"`
	Total  int            `json:"total"`
	Levels map[string]int `json:"levels"`
}

func (s *reportService) trends(ctx context.Context, since time.Time) ([]string, [][]string, interface{}, error) {
	alerts, err := s.alertRepo.Query(ctx, nil, repos.AlertFilter{Since: since, Limit: 10000})
	if err != nil {
		return nil, nil, nil, apierr.Internal(fmt.Errorf("query alerts: %w", err))
	}
	byDay := map[string]*trendPoint{}
	for _, a := range alerts {
		day := a.CreatedAt.UTC().Format("2006-01-02")
		p, ok := byDay[day]
		if !ok {
			p = &trendPoint{Day: day, Levels: map[string]int{}}
			byDay[day] = p
		}
		p.Total++
		p.Levels[a.Level]++
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	points := make([]*trendPoint, 0, len(days))
	header := []string{"day", "total", "warning", "critical", "emergency"}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		p := byDay[d]
		points = append(points, p)
		rows = append(rows, []string{
			d,
			strconv.Itoa(p.Total),
			strconv.Itoa(p.Levels["warning"]),
			strconv.Itoa(p.Levels["critical"]),
			strconv.Itoa(p.Levels["emergency"]),
		})
	}
	return header, rows, points, nil
}
