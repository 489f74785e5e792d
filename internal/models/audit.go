package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type ScreeningAction string

const (
	ActionSubmitted ScreeningAction = "submitted"
	ActionApproved  ScreeningAction = "approved"
	ActionRejected  ScreeningAction = "rejected"
)

// ScreeningEvent is an append-only record of a lifecycle transition.
type ScreeningEvent struct {
	ID          string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	VolunteerID string          `gorm:"column:volunteer_id;type:text;index" json:"volunteer_id"`
	Action      ScreeningAction `gorm:"column:action;type:text" json:"action"`
	Actor       string          `gorm:"column:actor;type:text" json:"actor"`
	Metadata    datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (ScreeningEvent) TableName() string { return "screening_events" }

type DispatchStatus string

const (
	DispatchSent   DispatchStatus = "sent"
	DispatchFailed DispatchStatus = "failed"
)

type EmailDispatch struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Subject      string         `gorm:"column:subject;type:text" json:"subject"`
	Recipients   pq.StringArray `gorm:"column:recipients;type:text[]" json:"recipients"`
	RequestedIDs pq.StringArray `gorm:"column:requested_ids;type:text[]" json:"requested_ids"`
	Status       DispatchStatus `gorm:"column:status;type:text" json:"status"`
	Error        string         `gorm:"column:error;type:text" json:"error,omitempty"`
	Actor        string         `gorm:"column:actor;type:text" json:"actor"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (EmailDispatch) TableName() string { return "email_dispatches" }
