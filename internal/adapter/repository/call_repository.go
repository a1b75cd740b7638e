package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/internal/domain/repositories"
)

// callRepository implements the CallRepository interface
type callRepository struct {
	db *gorm.DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db *gorm.DB) repositories.CallRepository {
	return &callRepository{db: db}
}

// CreateWithHost creates the call and its seed HOST participant in one
// transaction. The partial unique index on (team_id, ref_id, ref_type)
// for active calls makes the loser of a concurrent first-create fail with
// a unique violation instead of producing a second active call.
func (r *callRepository) CreateWithHost(ctx context.Context, call *entities.Call, host *entities.CallParticipant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(call).Error; err != nil {
			return err
		}
		host.CallID = call.ID
		return tx.Create(host).Error
	})
}

// FindActiveByReference retrieves the active call for a (team, ref) combination
func (r *callRepository) FindActiveByReference(ctx context.Context, teamID, refID uuid.UUID, refType string) (*entities.Call, error) {
	var call entities.Call
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND ref_id = ? AND ref_type = ? AND ended_at IS NULL", teamID, refID, refType).
		First(&call).Error

	if err != nil {
		return nil, err
	}
	return &call, nil
}

// FindByRoomID retrieves a call by its room code with participants preloaded
func (r *callRepository) FindByRoomID(ctx context.Context, roomID string) (*entities.Call, error) {
	var call entities.Call
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("room_id = ?", roomID).
		First(&call).Error

	if err != nil {
		return nil, err
	}
	return &call, nil
}

// End marks a still-active call as ended
func (r *callRepository) End(ctx context.Context, callID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Call{}).
		Where("id = ? AND ended_at IS NULL", callID).
		Update("ended_at", gorm.Expr("NOW()"))
	return res.RowsAffected, res.Error
}

// HistoryByUser lists calls the user has participated in, newest first
func (r *callRepository) HistoryByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Call, error) {
	var calls []*entities.Call
	query := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN call_participants ON call_participants.call_id = calls.id").
		Where("call_participants.user_id = ?", userID).
		Order("calls.created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&calls).Error
	return calls, err
}
