package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptFragment is one spoken fragment while it lives in the room's
// buffer, before being promoted to a CallTranscript row. The buffer is not
// a system of record.
type TranscriptFragment struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// CallTranscript is one persisted fragment captured during a call.
// Append-only; written only by the summarization pipeline once fragments
// are drained from the buffer.
type CallTranscript struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CallID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"call_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null" json:"user_id"`
	UserName  string         `gorm:"type:varchar(255)" json:"user_name"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	SpokenAt  time.Time      `gorm:"not null;index" json:"spoken_at"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for CallTranscript
func (CallTranscript) TableName() string {
	return "call_transcripts"
}

// TranscriptFromFragment promotes a buffered fragment to a transcript row
func TranscriptFromFragment(callID uuid.UUID, f TranscriptFragment) *CallTranscript {
	return &CallTranscript{
		CallID:   callID,
		UserID:   f.UserID,
		UserName: f.UserName,
		Content:  f.Content,
		SpokenAt: f.Timestamp,
	}
}
