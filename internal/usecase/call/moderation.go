package call

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	usecaseErrors "github.com/teamflowdev/call-coordinator/internal/usecase/errors"
)

// Moderation event names consumed by the client push channel
const (
	EventUserKicked    = "user-kicked"
	EventUserUnkicked  = "user-unkicked"
	EventRequestKick   = "request-kick"
	EventRequestUnkick = "request-unkick"
)

// ModerationStatus tells the caller whether the action was applied
// directly or forwarded to the host for approval.
type ModerationStatus string

const (
	ModerationApplied   ModerationStatus = "APPLIED"
	ModerationRequested ModerationStatus = "REQUESTED"
)

// ModerationEvent is the payload published for moderation notifications
type ModerationEvent struct {
	RoomID       string     `json:"room_id"`
	TargetUserID uuid.UUID  `json:"target_user_id"`
	ActorUserID  uuid.UUID  `json:"actor_user_id"`
	ActorName    string     `json:"actor_name,omitempty"`
	AddressedTo  *uuid.UUID `json:"addressed_to,omitempty"`
}

// KickUser bans the target from the room. A HOST acts directly. An ADMIN
// defers to a present HOST via a request event, or acts with HOST
// authority when no HOST is present. Everyone else is refused.
func (s *Service) KickUser(ctx context.Context, requesterID, targetUserID uuid.UUID, roomID string) (ModerationStatus, error) {
	call, requester, err := s.loadCallAndRequester(ctx, roomID, requesterID)
	if err != nil {
		return "", err
	}

	switch requester.Role {
	case entities.CallRoleHost:
		return ModerationApplied, s.banAndNotify(ctx, call, requesterID, targetUserID)

	case entities.CallRoleAdmin:
		host, err := s.participantRepo.FindPresentHost(ctx, call.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to look up present host: %w", err)
		}
		if host != nil {
			// Host is in the room: forward the request, mutate nothing
			s.publish(ctx, EventRequestKick, ModerationEvent{
				RoomID:       call.RoomID,
				TargetUserID: targetUserID,
				ActorUserID:  requesterID,
				AddressedTo:  &host.UserID,
			})
			return ModerationRequested, nil
		}
		// Host offline: the admin acts with fallback authority
		return ModerationApplied, s.banAndNotify(ctx, call, requesterID, targetUserID)

	default:
		return "", usecaseErrors.ErrNoKickPermission
	}
}

// UnkickUser lifts a ban, restoring the target's role from the permission
// source. It mirrors KickUser's authority rules. The target's left_at is
// deliberately untouched: unbanning does not imply rejoining.
func (s *Service) UnkickUser(ctx context.Context, requesterID, targetUserID uuid.UUID, roomID string) (ModerationStatus, error) {
	call, requester, err := s.loadCallAndRequester(ctx, roomID, requesterID)
	if err != nil {
		return "", err
	}

	switch requester.Role {
	case entities.CallRoleHost:
		return ModerationApplied, s.unbanAndNotify(ctx, call, requesterID, targetUserID)

	case entities.CallRoleAdmin:
		host, err := s.participantRepo.FindPresentHost(ctx, call.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("failed to look up present host: %w", err)
		}
		if host != nil {
			s.publish(ctx, EventRequestUnkick, ModerationEvent{
				RoomID:       call.RoomID,
				TargetUserID: targetUserID,
				ActorUserID:  requesterID,
				AddressedTo:  &host.UserID,
			})
			return ModerationRequested, nil
		}
		return ModerationApplied, s.unbanAndNotify(ctx, call, requesterID, targetUserID)

	default:
		return "", usecaseErrors.ErrNoKickPermission
	}
}

// loadCallAndRequester resolves the call by room code and the requester's
// present participant row.
func (s *Service) loadCallAndRequester(ctx context.Context, roomID string, requesterID uuid.UUID) (*entities.Call, *entities.CallParticipant, error) {
	call, err := s.callRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, usecaseErrors.ErrCallNotFound
		}
		return nil, nil, fmt.Errorf("failed to get call: %w", err)
	}

	requester := findPresent(call.Participants, requesterID)
	if requester == nil {
		return nil, nil, usecaseErrors.ErrNotInRoom
	}
	return call, requester, nil
}

// banAndNotify performs the actual ban and publishes the kicked event.
// The ban is scoped to a present row, so an already-left target yields
// zero rows affected. The notification names the actor, so a failed
// profile lookup aborts the operation.
func (s *Service) banAndNotify(ctx context.Context, call *entities.Call, actorID, targetUserID uuid.UUID) error {
	rows, err := s.participantRepo.Ban(ctx, call.ID, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to ban participant: %w", err)
	}
	if rows == 0 {
		return usecaseErrors.ErrTargetNotInRoom
	}

	profile, err := s.directory.Profile(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to fetch actor profile: %w", err)
	}

	s.publish(ctx, EventUserKicked, ModerationEvent{
		RoomID:       call.RoomID,
		TargetUserID: targetUserID,
		ActorUserID:  actorID,
		ActorName:    profile.Name,
	})
	return nil
}

// unbanAndNotify re-fetches the target's role from the permission source,
// writes it back onto the existing row and publishes the unkicked event.
func (s *Service) unbanAndNotify(ctx context.Context, call *entities.Call, actorID, targetUserID uuid.UUID) error {
	teamRole, err := s.gateway.MemberRole(ctx, call.TeamID, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to fetch member role: %w", err)
	}
	role, err := entities.CallRoleFromTeamRole(teamRole)
	if err != nil {
		return fmt.Errorf("%w: %v", usecaseErrors.ErrUnmappedRole, err)
	}

	rows, err := s.participantRepo.UpdateRole(ctx, call.ID, targetUserID, role)
	if err != nil {
		return fmt.Errorf("failed to restore participant role: %w", err)
	}
	if rows == 0 {
		return usecaseErrors.ErrTargetNotInRoom
	}

	profile, err := s.directory.Profile(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to fetch actor profile: %w", err)
	}

	s.publish(ctx, EventUserUnkicked, ModerationEvent{
		RoomID:       call.RoomID,
		TargetUserID: targetUserID,
		ActorUserID:  actorID,
		ActorName:    profile.Name,
	})
	return nil
}

// publish sends a notification best-effort; failures never fail the
// moderation action.
func (s *Service) publish(ctx context.Context, event string, payload ModerationEvent) {
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		s.logger.Warn("moderation event not delivered",
			zap.String("event", event),
			zap.String("room_id", payload.RoomID),
			zap.Error(err),
		)
	}
}
