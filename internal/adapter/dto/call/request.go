package call

import "time"

// JoinCallRequest represents the request to create or join a call
type JoinCallRequest struct {
	TeamID  string  `json:"team_id" validate:"required,uuid"`
	RefID   *string `json:"ref_id,omitempty" validate:"omitempty,uuid"`
	RefType *string `json:"ref_type,omitempty" validate:"omitempty,min=1,max=32"`
}

// EndCallRequest represents the request to end a call
type EndCallRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

// ModerationRequest represents a kick or unkick request
type ModerationRequest struct {
	RoomID string `json:"room_id" validate:"required"`
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ScreenShareRequest represents a screen-share status update
type ScreenShareRequest struct {
	RoomID    string `json:"room_id" validate:"required"`
	IsSharing bool   `json:"is_sharing"`
}

// TranscriptRequest represents one live transcript fragment
type TranscriptRequest struct {
	RoomID    string     `json:"room_id" validate:"required"`
	Content   string     `json:"content" validate:"required,min=1,max=10000"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// TriggerSummaryRequest represents a manual summarization trigger
type TriggerSummaryRequest struct {
	RoomID string `json:"room_id" validate:"required"`
}

// CallHistoryRequest represents query parameters for call history
type CallHistoryRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}
