package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
)

// CallRepository defines call persistence operations
type CallRepository interface {
	// CreateWithHost creates the call row and its seed HOST participant in
	// one transaction, so a half-created call is never observable.
	CreateWithHost(ctx context.Context, call *entities.Call, host *entities.CallParticipant) error

	// FindActiveByReference looks up the single active call for a
	// (team, ref) combination, if any.
	FindActiveByReference(ctx context.Context, teamID, refID uuid.UUID, refType string) (*entities.Call, error)

	// FindByRoomID resolves a call by its shareable room code, with
	// participants preloaded.
	FindByRoomID(ctx context.Context, roomID string) (*entities.Call, error)

	// End sets ended_at on a still-active call; returns the number of rows
	// affected so an already-ended call can be detected.
	End(ctx context.Context, callID uuid.UUID) (int64, error)

	// HistoryByUser lists calls the user has participated in, newest first.
	HistoryByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Call, error)
}

// ParticipantRepository defines per-call membership persistence
type ParticipantRepository interface {
	FindByCallAndUser(ctx context.Context, callID, userID uuid.UUID) (*entities.CallParticipant, error)

	// Upsert inserts the participant or, on the (call_id, user_id) conflict
	// key, resets left_at to null and applies the given role.
	Upsert(ctx context.Context, participant *entities.CallParticipant) error

	// Ban sets role=BANNED and left_at=now for a currently-present target.
	// Returns rows affected; zero means the target was not in the room.
	Ban(ctx context.Context, callID, userID uuid.UUID) (int64, error)

	// UpdateRole overwrites the participant's role without touching
	// left_at. Returns rows affected.
	UpdateRole(ctx context.Context, callID, userID uuid.UUID, role entities.CallRole) (int64, error)

	// FindPresentHost returns the currently-present HOST participant, if any.
	FindPresentHost(ctx context.Context, callID uuid.UUID) (*entities.CallParticipant, error)

	// SetScreenShare updates is_sharing_screen for a present participant.
	SetScreenShare(ctx context.Context, callID, userID uuid.UUID, sharing bool) error
}

// SummaryRepository persists the output of one summarization run
type SummaryRepository interface {
	// SaveSummaryRun writes the drained transcripts, the summary block and
	// the extracted action items in a single transaction. Either all rows
	// are written or none are.
	SaveSummaryRun(
		ctx context.Context,
		transcripts []*entities.CallTranscript,
		summary *entities.CallSummaryBlock,
		items []*entities.CallActionItem,
	) error
}
