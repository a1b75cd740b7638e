package presenter

import (
	"github.com/google/uuid"

	"github.com/teamflowdev/call-coordinator/internal/adapter/dto/call"
	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
)

// ToCallResponse converts a Call entity to CallResponse DTO. Display
// names are joined in from the profiles slice when present.
func ToCallResponse(c *entities.Call, profiles []entities.UserProfile) *call.CallResponse {
	if c == nil {
		return nil
	}

	names := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.Name
	}

	response := &call.CallResponse{
		ID:        c.ID.String(),
		RoomID:    c.RoomID,
		TeamID:    c.TeamID.String(),
		RefType:   c.RefType,
		StartedAt: c.CreatedAt,
		EndedAt:   c.EndedAt,
	}
	if c.RefID != nil {
		refID := c.RefID.String()
		response.RefID = &refID
	}

	for _, p := range c.Participants {
		response.Participants = append(response.Participants, &call.ParticipantResponse{
			UserID:          p.UserID.String(),
			UserName:        names[p.UserID],
			Role:            string(p.Role),
			JoinedAt:        p.CreatedAt,
			LeftAt:          p.LeftAt,
			IsSharingScreen: p.IsSharingScreen,
		})
	}

	return response
}

// ToCallHistoryResponse converts a slice of Call entities to the paginated list DTO
func ToCallHistoryResponse(calls []*entities.Call) *call.CallHistoryResponse {
	responses := make([]*call.CallResponse, len(calls))
	for i, c := range calls {
		responses[i] = ToCallResponse(c, nil)
	}

	return &call.CallHistoryResponse{
		Calls: responses,
		Count: len(responses),
	}
}
