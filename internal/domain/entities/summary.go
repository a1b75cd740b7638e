package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemStatus represents the workflow state of an extracted action item
type ActionItemStatus string

const (
	ActionItemStatusSuggested ActionItemStatus = "SUGGESTED"
	ActionItemStatusAccepted  ActionItemStatus = "ACCEPTED"
	ActionItemStatusDismissed ActionItemStatus = "DISMISSED"
)

// CallSummaryBlock is one generated summary for a call. Multiple
// summarization runs produce multiple blocks.
type CallSummaryBlock struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CallID    uuid.UUID `gorm:"type:uuid;not null;index" json:"call_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for CallSummaryBlock
func (CallSummaryBlock) TableName() string {
	return "call_summary_blocks"
}

// CallActionItem is one action item extracted by a summarization run
type CallActionItem struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CallID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"call_id"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	Status    ActionItemStatus `gorm:"type:varchar(16);not null;default:'SUGGESTED'" json:"status"`
	CreatedAt time.Time        `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for CallActionItem
func (CallActionItem) TableName() string {
	return "call_action_items"
}

// MeetingSummary is the result of one AI summarization call
type MeetingSummary struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"action_items"`
}
