package entities

import (
	"time"

	"github.com/google/uuid"
)

// Call represents one video-room session, optionally bound to a team
// reference such as a task or a project.
type Call struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RoomID       string             `gorm:"type:varchar(12);unique;not null" json:"room_id"`
	TeamID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"team_id"`
	RefID        *uuid.UUID         `gorm:"type:uuid" json:"ref_id,omitempty"`
	RefType      *string            `gorm:"type:varchar(32)" json:"ref_type,omitempty"`
	EndedAt      *time.Time         `json:"ended_at,omitempty"`
	Participants []*CallParticipant `gorm:"foreignKey:CallID" json:"participants,omitempty"`
	CreatedAt    time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for Call
func (Call) TableName() string {
	return "calls"
}

// IsActive checks whether the call is still running
func (c *Call) IsActive() bool {
	return c.EndedAt == nil
}

// HasReference checks whether the call is bound to a reference object
func (c *Call) HasReference() bool {
	return c.RefID != nil && c.RefType != nil
}

// End marks the call as ended
func (c *Call) End() {
	now := time.Now()
	c.EndedAt = &now
}
