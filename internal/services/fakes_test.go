package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/repos"
	"github.com/bgeheroes/risk-backend/internal/types"
)

type fakeAssessmentRepo struct {
	mu      sync.Mutex
	rows    map[string]*types.RiskAssessment
	upserts int
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{rows: map[string]*types.RiskAssessment{}}
}

func (r *fakeAssessmentRepo) Upsert(_ context.Context, _ *gorm.DB, row *types.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	cp := *row
	r.rows[row.StudentID] = &cp
	return nil
}

func (r *fakeAssessmentRepo) UpsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

func (r *fakeAssessmentRepo) GetByStudent(_ context.Context, _ *gorm.DB, studentID string) (*types.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[studentID]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeAssessmentRepo) ListLatest(_ context.Context, _ *gorm.DB) ([]*types.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*types.RiskAssessment, 0, len(r.rows))
	for _, row := range r.rows {
		cp := *row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OverallRisk > out[j].OverallRisk })
	return out, nil
}

func (r *fakeAssessmentRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type fakeAlertRepo struct {
	mu   sync.Mutex
	rows []*types.RiskAlert
}

func newFakeAlertRepo() *fakeAlertRepo { return &fakeAlertRepo{} }

func (r *fakeAlertRepo) CreateMany(_ context.Context, _ *gorm.DB, rows []*types.RiskAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *fakeAlertRepo) Query(_ context.Context, _ *gorm.DB, f repos.AlertFilter) ([]*types.RiskAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.RiskAlert
	for _, a := range r.rows {
		if f.Level != "" && a.Level != f.Level {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.StudentID != "" && a.StudentID != f.StudentID {
			continue
		}
		if !f.Since.IsZero() && a.CreatedAt.Before(f.Since) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAlertRepo) ExistsSameDay(_ context.Context, _ *gorm.DB, studentID, alertType string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := at.UTC().Truncate(24 * time.Hour)
	for _, a := range r.rows {
		if a.StudentID != studentID || a.Type != alertType {
			continue
		}
		d := a.CreatedAt.UTC().Truncate(24 * time.Hour)
		if d.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAlertRepo) DeleteOlderThan(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*types.RiskAlert
	var removed int64
	for _, a := range r.rows {
		if a.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.rows = kept
	return removed, nil
}

func (r *fakeAlertRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *fakeAlertRepo) CountByLevelSince(_ context.Context, _ *gorm.DB, since time.Time) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, a := range r.rows {
		if !since.IsZero() && a.CreatedAt.Before(since) {
			continue
		}
		out[a.Level]++
	}
	return out, nil
}

type fakeInterventionRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*types.Intervention
}

func newFakeInterventionRepo() *fakeInterventionRepo {
	return &fakeInterventionRepo{rows: map[uuid.UUID]*types.Intervention{}}
}

func (r *fakeInterventionRepo) Create(_ context.Context, _ *gorm.DB, row *types.Intervention) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *row
	r.rows[row.ID] = &cp
	return nil
}

func (r *fakeInterventionRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (r *fakeInterventionRepo) Save(_ context.Context, _ *gorm.DB, row *types.Intervention) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *row
	r.rows[row.ID] = &cp
	return nil
}

func (r *fakeInterventionRepo) ListByStudent(_ context.Context, _ *gorm.DB, studentID string) ([]*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Intervention
	for _, row := range r.rows {
		if row.StudentID == studentID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInterventionRepo) ListByStatus(_ context.Context, _ *gorm.DB, status string) ([]*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Intervention
	for _, row := range r.rows {
		if row.Status == status {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInterventionRepo) ListAll(_ context.Context, _ *gorm.DB) ([]*types.Intervention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*types.Intervention
	for _, row := range r.rows {
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInterventionRepo) CountByStatus(_ context.Context, _ *gorm.DB, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if status == "" {
		return int64(len(r.rows)), nil
	}
	var n int64
	for _, row := range r.rows {
		if row.Status == status {
			n++
		}
	}
	return n, nil
}
