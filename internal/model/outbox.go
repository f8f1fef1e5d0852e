package model

import "time"

const (
	OutboxPending = 0
	OutboxSent    = 1
	OutboxFailed  = 2
)

const (
	EventReportCreated       = "report.created"
	EventReportStatusChanged = "report.status_changed"
)

// Outbox rows are written in the same transaction as the change they describe
// and relayed asynchronously.
type Outbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	AggregateID uint64 `gorm:"not null;index"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Outbox) TableName() string { return "outbox" }
