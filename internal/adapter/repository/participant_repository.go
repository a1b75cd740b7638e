package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/internal/domain/repositories"
)

// participantRepository implements the ParticipantRepository interface
type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *gorm.DB) repositories.ParticipantRepository {
	return &participantRepository{db: db}
}

// FindByCallAndUser retrieves a participant by call and user ID
func (r *participantRepository) FindByCallAndUser(ctx context.Context, callID, userID uuid.UUID) (*entities.CallParticipant, error) {
	var participant entities.CallParticipant
	err := r.db.WithContext(ctx).
		Where("call_id = ? AND user_id = ?", callID, userID).
		First(&participant).Error

	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// Upsert inserts the participant or resets an existing row on the
// (call_id, user_id) conflict key, clearing left_at and applying the role.
func (r *participantRepository) Upsert(ctx context.Context, participant *entities.CallParticipant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "call_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"role":       participant.Role,
				"left_at":    nil,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(participant).Error
}

// Ban sets role=BANNED and left_at=now, scoped to a currently-present row
// so an already-left target yields zero rows affected.
func (r *participantRepository) Ban(ctx context.Context, callID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.CallParticipant{}).
		Where("call_id = ? AND user_id = ? AND left_at IS NULL", callID, userID).
		Updates(map[string]interface{}{
			"role":    entities.CallRoleBanned,
			"left_at": gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}

// UpdateRole overwrites the participant's role. left_at is deliberately
// left untouched: unbanning does not imply rejoining.
func (r *participantRepository) UpdateRole(ctx context.Context, callID, userID uuid.UUID, role entities.CallRole) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.CallParticipant{}).
		Where("call_id = ? AND user_id = ?", callID, userID).
		Update("role", role)
	return res.RowsAffected, res.Error
}

// FindPresentHost retrieves the currently-present HOST participant
func (r *participantRepository) FindPresentHost(ctx context.Context, callID uuid.UUID) (*entities.CallParticipant, error) {
	var participant entities.CallParticipant
	err := r.db.WithContext(ctx).
		Where("call_id = ? AND role = ? AND left_at IS NULL", callID, entities.CallRoleHost).
		First(&participant).Error

	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// SetScreenShare updates is_sharing_screen for a present participant
func (r *participantRepository) SetScreenShare(ctx context.Context, callID, userID uuid.UUID, sharing bool) error {
	return r.db.WithContext(ctx).
		Model(&entities.CallParticipant{}).
		Where("call_id = ? AND user_id = ? AND left_at IS NULL", callID, userID).
		Update("is_sharing_screen", sharing).
		Error
}
