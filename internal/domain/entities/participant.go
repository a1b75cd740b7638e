package entities

import (
	"time"

	"github.com/google/uuid"
)

// CallParticipant represents a user's membership in one call. Rows are
// never hard-deleted; presence is tracked through LeftAt and role
// transitions are driven by the moderation engine.
type CallParticipant struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CallID          uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_call_user" json:"call_id"`
	Call            *Call      `gorm:"foreignKey:CallID" json:"call,omitempty"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_call_user" json:"user_id"`
	Role            CallRole   `gorm:"type:varchar(16);not null;default:'MEMBER'" json:"role"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
	IsSharingScreen bool       `gorm:"default:false" json:"is_sharing_screen"`
	CreatedAt       time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for CallParticipant
func (CallParticipant) TableName() string {
	return "call_participants"
}

// IsPresent checks if the participant is currently in the call
func (p *CallParticipant) IsPresent() bool {
	return p.LeftAt == nil
}

// IsBanned checks if the participant has been banned from the call
func (p *CallParticipant) IsBanned() bool {
	return p.Role == CallRoleBanned
}

// Ban marks the participant as banned and no longer present
func (p *CallParticipant) Ban() {
	now := time.Now()
	p.Role = CallRoleBanned
	p.LeftAt = &now
}
