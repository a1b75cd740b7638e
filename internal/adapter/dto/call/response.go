package call

import "time"

// JoinCallResponse tells the client whether it created or joined a room
type JoinCallResponse struct {
	Action string `json:"action"`
	RoomID string `json:"room_id"`
}

// ModerationResponse reports how a kick/unkick request was handled
type ModerationResponse struct {
	Status string `json:"status"`
}

// ParticipantResponse represents one participant in a call
type ParticipantResponse struct {
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name,omitempty"`
	Role            string     `json:"role"`
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
	IsSharingScreen bool       `json:"is_sharing_screen"`
}

// CallResponse represents one call in history views
type CallResponse struct {
	ID           string                 `json:"id"`
	RoomID       string                 `json:"room_id"`
	TeamID       string                 `json:"team_id"`
	RefID        *string                `json:"ref_id,omitempty"`
	RefType      *string                `json:"ref_type,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	EndedAt      *time.Time             `json:"ended_at,omitempty"`
	Participants []*ParticipantResponse `json:"participants,omitempty"`
}

// CallHistoryResponse is the paginated call-history list
type CallHistoryResponse struct {
	Calls []*CallResponse `json:"calls"`
	Count int             `json:"count"`
}
