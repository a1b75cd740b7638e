package call

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/internal/domain/repositories"
	usecaseErrors "github.com/teamflowdev/call-coordinator/internal/usecase/errors"
	"github.com/teamflowdev/call-coordinator/pkg/roomcode"
)

// PermissionGateway verifies team membership and roles against the
// external permission service.
type PermissionGateway interface {
	VerifyMembership(ctx context.Context, teamID, userID uuid.UUID, roles []entities.TeamRole) (bool, error)
	MemberRole(ctx context.Context, teamID, userID uuid.UUID) (entities.TeamRole, error)
}

// Directory resolves user profiles from the external user directory
type Directory interface {
	Profile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error)
	Profiles(ctx context.Context, userIDs []uuid.UUID) ([]entities.UserProfile, error)
}

// EventPublisher sends best-effort notifications to connected clients
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{}) error
}

// Service handles call registry and moderation business logic
type Service struct {
	callRepo        repositories.CallRepository
	participantRepo repositories.ParticipantRepository
	gateway         PermissionGateway
	directory       Directory
	publisher       EventPublisher
	logger          *zap.Logger
}

// NewService creates a new call service
func NewService(
	callRepo repositories.CallRepository,
	participantRepo repositories.ParticipantRepository,
	gateway PermissionGateway,
	directory Directory,
	publisher EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		callRepo:        callRepo,
		participantRepo: participantRepo,
		gateway:         gateway,
		directory:       directory,
		publisher:       publisher,
		logger:          logger,
	}
}

// JoinAction tells the caller whether a fresh room was created or an
// existing one joined.
type JoinAction string

const (
	ActionCreated JoinAction = "CREATED"
	ActionJoined  JoinAction = "JOIN"
)

// JoinResult is the outcome of CreateOrJoinCall
type JoinResult struct {
	Action JoinAction `json:"action"`
	RoomID string     `json:"room_id"`
}

// CreateOrJoinCallInput represents input for creating or joining a call
type CreateOrJoinCallInput struct {
	UserID  uuid.UUID
	TeamID  uuid.UUID
	RefID   *uuid.UUID
	RefType *string
}

// CreateOrJoinCall finds the active call for (team, ref) and joins it, or
// creates a fresh call with the requester seeded as HOST. Calls without a
// reference are always created fresh.
func (s *Service) CreateOrJoinCall(ctx context.Context, input CreateOrJoinCallInput) (*JoinResult, error) {
	allowed, err := s.gateway.VerifyMembership(ctx, input.TeamID, input.UserID, []entities.TeamRole{
		entities.TeamRoleOwner,
		entities.TeamRoleAdmin,
		entities.TeamRoleMember,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify team membership: %w", err)
	}
	if !allowed {
		return nil, usecaseErrors.ErrNotTeamMember
	}

	hasRef := input.RefID != nil && input.RefType != nil
	if hasRef {
		existing, err := s.callRepo.FindActiveByReference(ctx, input.TeamID, *input.RefID, *input.RefType)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up active call: %w", err)
		}
		if existing != nil {
			return s.joinExisting(ctx, existing, input.UserID)
		}
	}

	return s.createCall(ctx, input, hasRef)
}

// joinExisting admits the user into an already-active call
func (s *Service) joinExisting(ctx context.Context, call *entities.Call, userID uuid.UUID) (*JoinResult, error) {
	participant, err := s.participantRepo.FindByCallAndUser(ctx, call.ID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	if participant != nil && participant.IsBanned() {
		return nil, usecaseErrors.ErrBannedFromCall
	}

	// Refresh the role from the permission source on every join
	teamRole, err := s.gateway.MemberRole(ctx, call.TeamID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member role: %w", err)
	}
	role, err := entities.CallRoleFromTeamRole(teamRole)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrUnmappedRole, err)
	}

	// Already present: joining again is a no-op
	if participant != nil && participant.IsPresent() {
		return &JoinResult{Action: ActionJoined, RoomID: call.RoomID}, nil
	}

	if err := s.participantRepo.Upsert(ctx, &entities.CallParticipant{
		CallID: call.ID,
		UserID: userID,
		Role:   role,
	}); err != nil {
		return nil, fmt.Errorf("failed to upsert participant: %w", err)
	}

	return &JoinResult{Action: ActionJoined, RoomID: call.RoomID}, nil
}

// createCall creates a fresh room with the requester as HOST. When a
// concurrent first-join for the same reference wins the create, the
// partial unique index rejects this one and the request falls back to
// joining the winner's call.
func (s *Service) createCall(ctx context.Context, input CreateOrJoinCallInput, hasRef bool) (*JoinResult, error) {
	code, err := roomcode.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate room code: %w", err)
	}

	call := &entities.Call{
		RoomID:  code,
		TeamID:  input.TeamID,
		RefID:   input.RefID,
		RefType: input.RefType,
	}
	host := &entities.CallParticipant{
		UserID: input.UserID,
		Role:   entities.CallRoleHost,
	}

	if err := s.callRepo.CreateWithHost(ctx, call, host); err != nil {
		if hasRef && isUniqueViolation(err) {
			existing, ferr := s.callRepo.FindActiveByReference(ctx, input.TeamID, *input.RefID, *input.RefType)
			if ferr != nil {
				return nil, fmt.Errorf("failed to resolve concurrently created call: %w", ferr)
			}
			return s.joinExisting(ctx, existing, input.UserID)
		}
		return nil, fmt.Errorf("failed to create call: %w", err)
	}

	return &JoinResult{Action: ActionCreated, RoomID: call.RoomID}, nil
}

// EndCall marks a call as ended. Only a present HOST may end it.
func (s *Service) EndCall(ctx context.Context, userID uuid.UUID, roomID string) error {
	call, err := s.callRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecaseErrors.ErrCallNotFound
		}
		return fmt.Errorf("failed to get call: %w", err)
	}

	requester := findPresent(call.Participants, userID)
	if requester == nil || requester.Role != entities.CallRoleHost {
		return usecaseErrors.ErrNotHost
	}

	rows, err := s.callRepo.End(ctx, call.ID)
	if err != nil {
		return fmt.Errorf("failed to end call: %w", err)
	}
	if rows == 0 {
		return usecaseErrors.ErrCallEnded
	}
	return nil
}

// UpdateScreenShareStatus flips the screen-share flag for a present
// participant. Missing call or participant is a silent no-op.
func (s *Service) UpdateScreenShareStatus(ctx context.Context, userID uuid.UUID, roomID string, isSharing bool) error {
	call, err := s.callRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get call: %w", err)
	}

	if err := s.participantRepo.SetScreenShare(ctx, call.ID, userID, isSharing); err != nil {
		return fmt.Errorf("failed to update screen share status: %w", err)
	}
	return nil
}

// CallHistoryByUser lists calls the user has participated in
func (s *Service) CallHistoryByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Call, error) {
	calls, err := s.callRepo.HistoryByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get call history: %w", err)
	}
	return calls, nil
}

// CallHistoryByRoom returns one call with its participants, decorated with
// directory profiles. Profile resolution is best-effort: when the
// directory is unreachable the history is still served, just without
// display names.
func (s *Service) CallHistoryByRoom(ctx context.Context, roomID string) (*entities.Call, []entities.UserProfile, error) {
	call, err := s.callRepo.FindByRoomID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, usecaseErrors.ErrCallNotFound
		}
		return nil, nil, fmt.Errorf("failed to get call: %w", err)
	}

	userIDs := make([]uuid.UUID, 0, len(call.Participants))
	for _, p := range call.Participants {
		userIDs = append(userIDs, p.UserID)
	}

	profiles, err := s.directory.Profiles(ctx, userIDs)
	if err != nil {
		s.logger.Warn("profile resolution failed, serving history without names",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		return call, nil, nil
	}

	return call, profiles, nil
}

// findPresent returns the participant row for userID if it is currently
// present, otherwise nil.
func findPresent(participants []*entities.CallParticipant, userID uuid.UUID) *entities.CallParticipant {
	for _, p := range participants {
		if p.UserID == userID && p.IsPresent() {
			return p
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
