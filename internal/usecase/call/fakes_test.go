package call

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
)

type refKey struct {
	teamID  uuid.UUID
	refID   uuid.UUID
	refType string
}

// fakeCallRepo is an in-memory CallRepository
type fakeCallRepo struct {
	mu        sync.Mutex
	byRoom    map[string]*entities.Call
	byRef     map[refKey]*entities.Call
	createErr error
	history   []*entities.Call
}

func newFakeCallRepo() *fakeCallRepo {
	return &fakeCallRepo{
		byRoom: make(map[string]*entities.Call),
		byRef:  make(map[refKey]*entities.Call),
	}
}

func (r *fakeCallRepo) seed(call *entities.Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if call.ID == uuid.Nil {
		call.ID = uuid.New()
	}
	r.byRoom[call.RoomID] = call
	if call.HasReference() {
		r.byRef[refKey{call.TeamID, *call.RefID, *call.RefType}] = call
	}
}

func (r *fakeCallRepo) CreateWithHost(ctx context.Context, call *entities.Call, host *entities.CallParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}

	call.ID = uuid.New()
	host.CallID = call.ID
	call.Participants = []*entities.CallParticipant{host}
	r.byRoom[call.RoomID] = call
	if call.HasReference() {
		r.byRef[refKey{call.TeamID, *call.RefID, *call.RefType}] = call
	}
	return nil
}

func (r *fakeCallRepo) FindActiveByReference(ctx context.Context, teamID, refID uuid.UUID, refType string) (*entities.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call, ok := r.byRef[refKey{teamID, refID, refType}]
	if !ok || !call.IsActive() {
		return nil, gorm.ErrRecordNotFound
	}
	return call, nil
}

func (r *fakeCallRepo) FindByRoomID(ctx context.Context, roomID string) (*entities.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call, ok := r.byRoom[roomID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return call, nil
}

func (r *fakeCallRepo) End(ctx context.Context, callID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, call := range r.byRoom {
		if call.ID == callID && call.IsActive() {
			call.End()
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeCallRepo) HistoryByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Call, error) {
	return r.history, nil
}

// fakeParticipantRepo operates on the same participant structs that are
// preloaded on the fake calls.
type fakeParticipantRepo struct {
	mu       sync.Mutex
	rows     []*entities.CallParticipant
	upserted []*entities.CallParticipant
}

func (r *fakeParticipantRepo) find(callID, userID uuid.UUID) *entities.CallParticipant {
	for _, p := range r.rows {
		if p.CallID == callID && p.UserID == userID {
			return p
		}
	}
	return nil
}

func (r *fakeParticipantRepo) FindByCallAndUser(ctx context.Context, callID, userID uuid.UUID) (*entities.CallParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.find(callID, userID); p != nil {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeParticipantRepo) Upsert(ctx context.Context, participant *entities.CallParticipant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upserted = append(r.upserted, participant)
	if p := r.find(participant.CallID, participant.UserID); p != nil {
		p.Role = participant.Role
		p.LeftAt = nil
		return nil
	}
	r.rows = append(r.rows, participant)
	return nil
}

func (r *fakeParticipantRepo) Ban(ctx context.Context, callID, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.find(callID, userID)
	if p == nil || !p.IsPresent() {
		return 0, nil
	}
	p.Ban()
	return 1, nil
}

func (r *fakeParticipantRepo) UpdateRole(ctx context.Context, callID, userID uuid.UUID, role entities.CallRole) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.find(callID, userID)
	if p == nil {
		return 0, nil
	}
	p.Role = role
	return 1, nil
}

func (r *fakeParticipantRepo) FindPresentHost(ctx context.Context, callID uuid.UUID) (*entities.CallParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.rows {
		if p.CallID == callID && p.Role == entities.CallRoleHost && p.IsPresent() {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeParticipantRepo) SetScreenShare(ctx context.Context, callID, userID uuid.UUID, sharing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.find(callID, userID); p != nil {
		p.IsSharingScreen = sharing
	}
	return nil
}

// fakeGateway answers membership and role queries from canned values
type fakeGateway struct {
	allowed   bool
	verifyErr error
	roles     map[uuid.UUID]entities.TeamRole
	roleErr   error
}

func (g *fakeGateway) VerifyMembership(ctx context.Context, teamID, userID uuid.UUID, roles []entities.TeamRole) (bool, error) {
	return g.allowed, g.verifyErr
}

func (g *fakeGateway) MemberRole(ctx context.Context, teamID, userID uuid.UUID) (entities.TeamRole, error) {
	if g.roleErr != nil {
		return "", g.roleErr
	}
	if role, ok := g.roles[userID]; ok {
		return role, nil
	}
	return entities.TeamRoleMember, nil
}

// fakeDirectory resolves canned profiles
type fakeDirectory struct {
	names map[uuid.UUID]string
	err   error
}

func (d *fakeDirectory) Profile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	if d.err != nil {
		return nil, d.err
	}
	name := d.names[userID]
	if name == "" {
		name = "someone"
	}
	return &entities.UserProfile{ID: userID, Name: name}, nil
}

func (d *fakeDirectory) Profiles(ctx context.Context, userIDs []uuid.UUID) ([]entities.UserProfile, error) {
	if d.err != nil {
		return nil, d.err
	}
	profiles := make([]entities.UserProfile, 0, len(userIDs))
	for _, id := range userIDs {
		p, _ := d.Profile(ctx, id)
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

type publishedEvent struct {
	event   string
	payload interface{}
}

// fakePublisher records published events
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{event: event, payload: payload})
	return nil
}

func (p *fakePublisher) byName(event string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []publishedEvent
	for _, e := range p.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

func present(callID, userID uuid.UUID, role entities.CallRole) *entities.CallParticipant {
	return &entities.CallParticipant{
		ID:     uuid.New(),
		CallID: callID,
		UserID: userID,
		Role:   role,
	}
}

func gone(callID, userID uuid.UUID, role entities.CallRole) *entities.CallParticipant {
	p := present(callID, userID, role)
	left := time.Now().Add(-time.Minute)
	p.LeftAt = &left
	return p
}
