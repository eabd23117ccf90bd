package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/bgeheroes/risk-backend/internal/apierr"
	"github.com/bgeheroes/risk-backend/internal/cache"
	"github.com/bgeheroes/risk-backend/internal/logger"
	"github.com/bgeheroes/risk-backend/internal/observability"
	"github.com/bgeheroes/risk-backend/internal/repos"
	"github.com/bgeheroes/risk-backend/internal/types"
)

type CreateInterventionInput struct {
	StudentID   string
	Type        string
	Strategy    string
	Description string
	Priority    string
	AssignedTo  []string
	Timeline    string
}

// UpdateInterventionInput is a partial patch: nil fields are left untouched.
// Notes appends one entry (timestamp and author are server-assigned);
// Milestones appends many.
type UpdateInterventionInput struct {
	Progress   *int
	Status     *string
	Note       *string
	NoteAuthor string
	Milestones []string
}

type InterventionService interface {
	Create(ctx context.Context, in CreateInterventionInput) (*types.Intervention, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInterventionInput) (*types.Intervention, error)
	ListByStudent(ctx context.Context, studentID string) ([]*types.Intervention, error)
	ListByStatus(ctx context.Context, status string) ([]*types.Intervention, error)
	ListAll(ctx context.Context) ([]*types.Intervention, error)
}

type interventionService struct {
	db              *gorm.DB
	log             *logger.Logger
	repo            repos.InterventionRepo
	assessmentCache cache.AssessmentCache
	metrics         *observability.Metrics
}

func NewInterventionService(db *gorm.DB, log *logger.Logger, repo repos.InterventionRepo, assessmentCache cache.AssessmentCache, metrics *observability.Metrics) InterventionService {
	return &interventionService{
		db:              db,
		log:             log.With("service", "InterventionService"),
		repo:            repo,
		assessmentCache: assessmentCache,
		metrics:         metrics,
	}
}

func (s *interventionService) Create(ctx context.Context, in CreateInterventionInput) (*types.Intervention, error) {
	studentID := strings.TrimSpace(in.StudentID)
	if studentID == "" {
		return nil, apierr.Validation("studentId is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, apierr.Validation("type is required")
	}

	priority := strings.TrimSpace(in.Priority)
	if priority == "" {
		priority = types.InterventionPriorityDefault
	}
	timeline := strings.TrimSpace(in.Timeline)
	if timeline == "" {
		timeline = types.InterventionTimelineDefault
	}
	assigned := in.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}

	now := time.Now().UTC()
	row := &types.Intervention{
		ID:          uuid.New(),
		StudentID:   studentID,
		Type:        strings.TrimSpace(in.Type),
		Strategy:    strings.TrimSpace(in.Strategy),
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		AssignedTo:  datatypes.NewJSONType(assigned),
		Timeline:    timeline,
		Status:      types.InterventionStatusActive,
		Progress:    0,
		Milestones:  datatypes.NewJSONType([]string{}),
		Notes:       datatypes.NewJSONType([]types.InterventionNote{}),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, nil, row); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create intervention: %w", err))
	}
	if s.metrics != nil {
		s.metrics.Interventions.WithLabelValues("create").Inc()
	}
	s.log.Info("Intervention created", "student_id", studentID, "type", row.Type, "priority", row.Priority)
	return row, nil
}

func (s *interventionService) Update(ctx context.Context, id uuid.UUID, in UpdateInterventionInput) (*types.Intervention, error) {
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return nil, apierr.Validation("progress must be between 0 and 100")
	}
	if in.Status != nil && !types.ValidInterventionStatus(*in.Status) {
		return nil, apierr.Validation("invalid status %q", *in.Status)
	}

	var out *types.Intervention
	if err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		row, err := s.repo.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("load intervention: %w", err)
		}
		if row == nil {
			return apierr.NotFound("intervention %s not found", id)
		}

		if in.Progress != nil {
			row.Progress = *in.Progress
		}
		if in.Status != nil {
			row.Status = *in.Status
		}
		if in.Note != nil && strings.TrimSpace(*in.Note) != "" {
			notes := row.Notes.Data()
			notes = append(notes, types.InterventionNote{
				Timestamp: time.Now().UTC(),
				Content:   strings.TrimSpace(*in.Note),
				Author:    strings.TrimSpace(in.NoteAuthor),
			})
			row.Notes = datatypes.NewJSONType(notes)
		}
		if len(in.Milestones) > 0 {
			milestones := row.Milestones.Data()
			milestones = append(milestones, in.Milestones...)
			row.Milestones = datatypes.NewJSONType(milestones)
		}
		row.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, row); err != nil {
			return fmt.Errorf("save intervention: %w", err)
		}
		out = row
		return nil
	}); err != nil {
		if apierr.StatusOf(err) != 500 {
			return nil, err
		}
		return nil, apierr.Internal(err)
	}

	// Completing or closing an intervention changes the student's situation,
	// so the cached assessment is invalidated and the next analyze call
	// recomputes inside the staleness window.
	if out.Finished() {
		if err := s.assessmentCache.Invalidate(ctx, out.StudentID); err != nil {
			s.log.Warn("Assessment invalidation failed after intervention finish", "student_id", out.StudentID, "error", err)
		} else {
			s.log.Info("Assessment cache invalidated after intervention finish", "student_id", out.StudentID)
		}
	}
	if s.metrics != nil {
		s.metrics.Interventions.WithLabelValues("update").Inc()
	}
	return out, nil
}

func (s *interventionService) ListByStudent(ctx context.Context, studentID string) ([]*types.Intervention, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apierr.Validation("studentId is required")
	}
	rows, err := s.repo.ListByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list interventions: %w", err))
	}
	return rows, nil
}

func (s *interventionService) ListByStatus(ctx context.Context, status string) ([]*types.Intervention, error) {
	if !types.ValidInterventionStatus(status) {
		return nil, apierr.Validation("invalid status %q", status)
	}
	rows, err := s.repo.ListByStatus(ctx, nil, status)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list interventions: %w", err))
	}
	return rows, nil
}

func (s *interventionService) ListAll(ctx context.Context) ([]*types.Intervention, error) {
	rows, err := s.repo.ListAll(ctx, nil)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list interventions: %w", err))
	}
	return rows, nil
}
