package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/apierr"
	"github.com/bgeheroes/risk-backend/internal/cache"
	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/observability"
	"github.com/bgeheroes/risk-backend/internal/repos"
	"github.com/bgeheroes/risk-backend/internal/risk"
	"github.com/bgeheroes/risk-backend/internal/riskconfig"
	"github.com/bgeheroes/risk-backend/internal/types"
)

// AnalyzeResult is the combined payload of one analyze call. Alerts holds
// only the alerts created by this call; FromCache marks a reused assessment.
type AnalyzeResult struct {
	Analysis        *types.RiskAssessment `json:"analysis"`
	FromCache       bool                  `json:"from_cache"`
	Alerts          []*types.RiskAlert    `json:"alerts"`
	Recommendations []risk.Recommendation `json:"recommendations"`
	Interventions   []*types.Intervention `json:"interventions"`
}

type BatchEntry struct {
	StudentID string                `json:"student_id"`
	Success   bool                  `json:"success"`
	Error     string                `json:"error,omitempty"`
	Analysis  *types.RiskAssessment `json:"analysis,omitempty"`
}

type BatchStats struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	HighRisk  int `json:"high_risk"`
}

type BatchResult struct {
	Results []BatchEntry `json:"results"`
	Stats   BatchStats   `json:"stats"`
}

type RiskService interface {
	Analyze(ctx context.Context, studentID string, factors risk.FactorInput, force bool) (*AnalyzeResult, error)
	AnalyzeBatch(ctx context.Context, studentIDs []string, criteria risk.FactorInput) (*BatchResult, error)
	Predict(ctx context.Context, studentIDs []string, criteria risk.FactorInput, horizonDays int, minConfidence float64) ([]risk.Prediction, error)
	Invalidate(ctx context.Context, studentID string) error
}

type riskService struct {
	db               *gorm.DB
	log              *logger.Logger
	cfg              *riskconfig.Config
	assessmentCache  cache.AssessmentCache
	assessmentRepo   repos.AssessmentRepo
	interventionRepo repos.InterventionRepo
	alertService     AlertService
	metrics          *observability.Metrics
	sf               singleflight.Group
	locks            sync.Map
}

func NewRiskService(
	db *gorm.DB,
	log *logger.Logger,
	cfg *riskconfig.Config,
	assessmentCache cache.AssessmentCache,
	assessmentRepo repos.AssessmentRepo,
	interventionRepo repos.InterventionRepo,
	alertService AlertService,
	metrics *observability.Metrics,
) RiskService {
	return &riskService{
		db:               db,
		log:              log.With("service", "RiskService"),
		cfg:              cfg,
		assessmentCache:  assessmentCache,
		assessmentRepo:   assessmentRepo,
		interventionRepo: interventionRepo,
		alertService:     alertService,
		metrics:          metrics,
	}
}

type analyzeOutcome struct {
	assessment *types.RiskAssessment
	newAlerts  []*types.RiskAlert
	fromCache  bool
}

func (s *riskService) Analyze(ctx context.Context, studentID string, factors risk.FactorInput, force bool) (*AnalyzeResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apierr.Validation("studentId is required")
	}

	// Identical concurrent calls share one flight, but a forced call must
	// never join a non-forced one (it could be handed a cache hit), so force
	// is part of the flight key. The per-student mutex inside getOrCompute
	// keeps the two flavors from computing and writing concurrently.
	key := studentID
	if force {
		key += "|force"
	}
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.getOrCompute(ctx, studentID, factors, force)
	})
	if err != nil {
		return nil, err
	}
	outcome := v.(*analyzeOutcome)

	interventions, err := s.interventionRepo.ListByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list interventions: %w", err))
	}

	if s.metrics != nil {
		source := "computed"
		if outcome.fromCache {
			source = "cache"
		}
		s.metrics.Analyses.WithLabelValues(source).Inc()
	}

	alerts := outcome.newAlerts
	if alerts == nil {
		alerts = []*types.RiskAlert{}
	}
	return &AnalyzeResult{
		Analysis:        outcome.assessment,
		FromCache:       outcome.fromCache,
		Alerts:          alerts,
		Recommendations: risk.Recommend(s.cfg, outcome.assessment),
		Interventions:   interventions,
	}, nil
}

// studentLock serializes the check-compute-persist path per student across
// forced and non-forced flights.
func (s *riskService) studentLock(studentID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(studentID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *riskService) getOrCompute(ctx context.Context, studentID string, factors risk.FactorInput, force bool) (*analyzeOutcome, error) {
	mu := s.studentLock(studentID)
	mu.Lock()
	defer mu.Unlock()

	if !force {
		cached, ok, err := s.assessmentCache.Get(ctx, studentID)
		if err != nil {
			s.log.Warn("Assessment cache read failed, recomputing", "student_id", studentID, "error", err)
		} else if ok {
			return &analyzeOutcome{assessment: cached, fromCache: true}, nil
		}
	}

	started := time.Now()
	assessment, err := risk.ComputeAssessment(s.cfg, studentID, factors)
	if err != nil {
		return nil, err
	}

	alerts := risk.EvaluateForAlerts(s.cfg, assessment)
	var kept []*types.RiskAlert
	if err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.assessmentRepo.Upsert(ctx, tx, assessment); err != nil {
			return fmt.Errorf("persist assessment: %w", err)
		}
		k, err := s.alertService.Record(ctx, tx, alerts)
		if err != nil {
			return err
		}
		kept = k
		return nil
	}); err != nil {
		return nil, apierr.Internal(err)
	}

	// The cache write is last and never interrupted by caller cancellation:
	// a canceled request must not leave a stored row without its cache entry
	// still pointing at stale data.
	ttl := time.Duration(s.cfg.CacheTTLMinutes) * time.Minute
	if err := s.assessmentCache.Set(context.WithoutCancel(ctx), studentID, assessment, ttl); err != nil {
		s.log.Warn("Assessment cache write failed", "student_id", studentID, "error", err)
	}

	if s.metrics != nil {
		s.metrics.AnalyzeLatency.Observe(time.Since(started).Seconds())
	}
	s.log.Info("Assessment computed",
		"student_id", studentID,
		"overall_risk", assessment.OverallRisk,
		"level", assessment.OverallRiskLevel,
		"new_alerts", len(kept),
	)
	return &analyzeOutcome{assessment: assessment, newAlerts: kept}, nil
}

func (s *riskService) AnalyzeBatch(ctx context.Context, studentIDs []string, criteria risk.FactorInput) (*BatchResult, error) {
	if len(studentIDs) == 0 {
		return nil, apierr.Validation("studentIds must not be empty")
	}

	entries := make([]BatchEntry, len(studentIDs))
	workers := s.cfg.BatchWorkers
	if workers <= 0 {
		workers = 4
	}

	// Subjects are independent: one bad id must not abort its siblings, so
	// worker errors are captured per entry and the group itself never fails.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range studentIDs {
		g.Go(func() error {
			res, err := s.Analyze(gctx, id, criteria, false)
			if err != nil {
				entries[i] = BatchEntry{StudentID: id, Success: false, Error: err.Error()}
				return nil
			}
			entries[i] = BatchEntry{StudentID: id, Success: true, Analysis: res.Analysis}
			return nil
		})
	}
	_ = g.Wait()

	stats := BatchStats{Processed: len(entries)}
	for _, e := range entries {
		if !e.Success {
			stats.Failed++
			if s.metrics != nil {
				s.metrics.BatchSubjects.WithLabelValues("failed").Inc()
			}
			continue
		}
		stats.Succeeded++
		if s.metrics != nil {
			s.metrics.BatchSubjects.WithLabelValues("succeeded").Inc()
		}
		switch e.Analysis.OverallRiskLevel {
		case string(riskconfig.LevelHigh), string(riskconfig.LevelCritical):
			stats.HighRisk++
		}
	}
	return &BatchResult{Results: entries, Stats: stats}, nil
}

func (s *riskService) Predict(ctx context.Context, studentIDs []string, criteria risk.FactorInput, horizonDays int, minConfidence float64) ([]risk.Prediction, error) {
	if len(studentIDs) == 0 {
		return nil, apierr.Validation("studentIds must not be empty")
	}
	out := make([]risk.Prediction, 0, len(studentIDs))
	for _, id := range studentIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		assessment, err := s.assessmentRepo.GetByStudent(ctx, nil, id)
		if err != nil {
			return nil, apierr.Internal(fmt.Errorf("load assessment: %w", err))
		}
		if assessment == nil {
			// No stored snapshot; project from an ephemeral computation over
			// the supplied criteria without persisting anything.
			assessment, err = risk.ComputeAssessment(s.cfg, id, criteria)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, risk.Predict(s.cfg, assessment, horizonDays, minConfidence))
	}
	return out, nil
}

func (s *riskService) Invalidate(ctx context.Context, studentID string) error {
	return s.assessmentCache.Invalidate(ctx, studentID)
}
