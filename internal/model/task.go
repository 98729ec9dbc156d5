package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// DefaultAssignee is stored in AssignedTo when the creator names nobody.
const DefaultAssignee = "Self"

type Task struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"_id"`
	UserID          string     `gorm:"type:uuid;not null;index" json:"user_id"`
	TaskName        string     `gorm:"not null" json:"task_name"`
	TaskDescription string     `gorm:"not null" json:"task_description"`
	DueDate         *time.Time `json:"due_date"`
	Priority        Priority   `gorm:"not null" json:"priority"`
	Status          Status     `gorm:"not null" json:"status"`
	Category        string     `gorm:"not null" json:"category"`
	EstimatedTime   float64    `gorm:"not null" json:"estimated_time"`
	ActualTime      *float64   `json:"actual_time"`
	Notes           string     `gorm:"not null" json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	AssignedTo      string     `gorm:"not null" json:"assigned_to"`
	Tags            string     `gorm:"not null" json:"tags"`
}

// BeforeCreate assigns a UUID when the caller left ID empty.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// NewTask returns a task owned by ownerID with every optional field at its default.
func NewTask(ownerID, name string, now time.Time) *Task {
	return &Task{
		UserID:     ownerID,
		TaskName:   name,
		Priority:   PriorityLow,
		Status:     StatusPending,
		AssignedTo: DefaultAssignee,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}
