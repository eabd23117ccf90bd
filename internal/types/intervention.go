package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	InterventionStatusActive    = "active"
	InterventionStatusCompleted = "completed"
	InterventionStatusClosed    = "closed"
	InterventionStatusCancelled = "cancelled"

	InterventionPriorityDefault = "medium"
	InterventionTimelineDefault = "short-term"
)

// InterventionNote is an append-only progress note. Timestamp and author are
// assigned server-side on append.
type InterventionNote struct {
	Timestamp time.Time `json:"timestamp"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
}

// Intervention is a tracked remediation action for one student. Notes and
// milestones only grow; rows are never deleted.
type Intervention struct {
	ID          uuid.UUID                                  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   string                                     `gorm:"column:student_id;not null;index" json:"student_id"`
	Type        string                                     `gorm:"column:type;not null" json:"type"`
	Strategy    string                                     `gorm:"column:strategy" json:"strategy"`
	Description string                                     `gorm:"column:description" json:"description"`
	Priority    string                                     `gorm:"column:priority;not null;default:medium" json:"priority"`
	AssignedTo  datatypes.JSONType[[]string]               `gorm:"type:jsonb;column:assigned_to" json:"assigned_to"`
	Timeline    string                                     `gorm:"column:timeline;not null;default:short-term" json:"timeline"`
	Status      string                                     `gorm:"column:status;not null;default:active;index" json:"status"`
	Progress    int                                        `gorm:"column:progress;not null;default:0" json:"progress"`
	Milestones  datatypes.JSONType[[]string]               `gorm:"type:jsonb;column:milestones" json:"milestones"`
	Notes       datatypes.JSONType[[]InterventionNote]     `gorm:"type:jsonb;column:notes" json:"notes"`
	CreatedAt   time.Time                                  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time                                  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Intervention) TableName() string { return "intervention" }

// Finished reports whether the status ends the active follow-up cycle and
// should force the student's next assessment to recompute.
func (i *Intervention) Finished() bool {
	return i.Status == InterventionStatusCompleted || i.Status == InterventionStatusClosed
}

func ValidInterventionStatus(s string) bool {
	switch s {
	case InterventionStatusActive, InterventionStatusCompleted, InterventionStatusClosed, InterventionStatusCancelled:
		return true
	}
	return false
}
