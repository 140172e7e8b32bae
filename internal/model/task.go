package model

import (
	"time"

	"github.com/google/uuid"
)

// Task status values
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is one of the three task statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

type Task struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"not null;index"`
	Description  string
	Status       string     `gorm:"not null;index"`
	OwnerID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index"`
	DueDate      *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Owner    User `gorm:"foreignKey:OwnerID"`
	Assignee User `gorm:"foreignKey:AssignedToID"`
}
