package call

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	usecaseErrors "github.com/teamflowdev/call-coordinator/internal/usecase/errors"
)

func TestKickUser_HostKicksDirectly(t *testing.T) {
	env := newTestEnv()
	hostID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	call.Participants = []*entities.CallParticipant{
		present(call.ID, hostID, entities.CallRoleHost),
		present(call.ID, targetID, entities.CallRoleMember),
	}
	env.seedCall(call)
	env.directory.names[hostID] = "Dana"

	status, err := env.service.KickUser(context.Background(), hostID, targetID, call.RoomID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ModerationApplied {
		t.Fatalf("expected APPLIED got %s", status)
	}

	target := env.parts.find(call.ID, targetID)
	if target.Role != entities.CallRoleBanned {
		t.Fatalf("target role %s, want BANNED", target.Role)
	}
	if target.IsPresent() {
		t.Fatal("banned target must not stay present")
	}

	kicked := env.publisher.byName(EventUserKicked)
	if len(kicked) != 1 {
		t.Fatalf("expected 1 user-kicked event got %d", len(kicked))
	}
	event := kicked[0].payload.(ModerationEvent)
	if event.TargetUserID != targetID || event.ActorName != "Dana" {
		t.Fatalf("bad event payload: %+v", event)
	}
}

func TestKickUser_AdminDefersToPresentHost(t *testing.T) {
	env := newTestEnv()
	hostID := uuid.New()
	adminID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	call.Participants = []*entities.CallParticipant{
		present(call.ID, hostID, entities.CallRoleHost),
		present(call.ID, adminID, entities.CallRoleAdmin),
		present(call.ID, targetID, entities.CallRoleMember),
	}
	env.seedCall(call)

	status, err := env.service.KickUser(context.Background(), adminID, targetID, call.RoomID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ModerationRequested {
		t.Fatalf("expected REQUESTED got %s", status)
	}

	// Nothing mutated, only a request forwarded to the host
	target := env.parts.find(call.ID, targetID)
	if target.Role != entities.CallRoleMember || !target.IsPresent() {
		t.Fatalf("forwarded request must not mutate the target: %+v", target)
	}
	requests := env.publisher.byName(EventRequestKick)
	if len(requests) != 1 {
		t.Fatalf("expected 1 request-kick event got %d", len(requests))
	}
	event := requests[0].payload.(ModerationEvent)
	if event.AddressedTo == nil || *event.AddressedTo != hostID {
		t.Fatalf("request must be addressed to the host: %+v", event)
	}
}

func TestKickUser_AdminActsWhenHostOffline(t *testing.T) {
	env := newTestEnv()
	adminID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	call.Participants = []*entities.CallParticipant{
		gone(call.ID, uuid.New(), entities.CallRoleHost),
		present(call.ID, adminID, entities.CallRoleAdmin),
		present(call.ID, targetID, entities.CallRoleMember),
	}
	env.seedCall(call)

	status, err := env.service.KickUser(context.Background(), adminID, targetID, call.RoomID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ModerationApplied {
		t.Fatalf("expected APPLIED got %s", status)
	}
	if env.parts.find(call.ID, targetID).Role != entities.CallRoleBanned {
		t.Fatal("target not banned under fallback authority")
	}
}

func TestKickUser_MemberRefused(t *testing.T) {
	env := newTestEnv()
	memberID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	call.Participants = []*entities.CallParticipant{
		present(call.ID, memberID, entities.CallRoleMember),
		present(call.ID, targetID, entities.CallRoleMember),
	}
	env.seedCall(call)

	_, err := env.service.KickUser(context.Background(), memberID, targetID, call.RoomID)
	if !errors.Is(err, usecaseErrors.ErrNoKickPermission) {
		t.Fatalf("expected ErrNoKickPermission got %v", err)
	}
}

func TestKickUser_RequesterNotInRoom(t *testing.T) {
	env := newTestEnv()
	leftID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	call.Participants = []*entities.CallParticipant{gone(call.ID, leftID, entities.CallRoleHost)}
	env.seedCall(call)

	_, err := env.service.KickUser(context.Background(), leftID, uuid.New(), call.RoomID)
	if !errors.Is(err, usecaseErrors.ErrNotInRoom) {
		t.Fatalf("expected ErrNotInRoom got %v", err)
	}
}

func TestKickUser_TargetAlreadyLeft(t *testing.T) {
	env := newTestEnv()
	hostID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	call.Participants = []*entities.CallParticipant{
		present(call.ID, hostID, entities.CallRoleHost),
		gone(call.ID, targetID, entities.CallRoleMember),
	}
	env.seedCall(call)

	_, err := env.service.KickUser(context.Background(), hostID, targetID, call.RoomID)
	if !errors.Is(err, usecaseErrors.ErrTargetNotInRoom) {
		t.Fatalf("expected ErrTargetNotInRoom got %v", err)
	}
}

func TestUnkickUser_RestoresRoleWithoutPresence(t *testing.T) {
	env := newTestEnv()
	hostID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	banned := gone(call.ID, targetID, entities.CallRoleBanned)
	call.Participants = []*entities.CallParticipant{
		present(call.ID, hostID, entities.CallRoleHost),
		banned,
	}
	env.seedCall(call)
	env.gateway.roles[targetID] = entities.TeamRoleMember

	status, err := env.service.UnkickUser(context.Background(), hostID, targetID, call.RoomID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ModerationApplied {
		t.Fatalf("expected APPLIED got %s", status)
	}
	if banned.Role != entities.CallRoleMember {
		t.Fatalf("role not restored, got %s", banned.Role)
	}
	if banned.IsPresent() {
		t.Fatal("unban must not mark the target present")
	}
	if len(env.publisher.byName(EventUserUnkicked)) != 1 {
		t.Fatal("user-unkicked event not published")
	}
}

func TestUnkickUser_AdminDefersToPresentHost(t *testing.T) {
	env := newTestEnv()
	hostID := uuid.New()
	adminID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	banned := gone(call.ID, targetID, entities.CallRoleBanned)
	call.Participants = []*entities.CallParticipant{
		present(call.ID, hostID, entities.CallRoleHost),
		present(call.ID, adminID, entities.CallRoleAdmin),
		banned,
	}
	env.seedCall(call)

	status, err := env.service.UnkickUser(context.Background(), adminID, targetID, call.RoomID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ModerationRequested {
		t.Fatalf("expected REQUESTED got %s", status)
	}
	if banned.Role != entities.CallRoleBanned {
		t.Fatal("forwarded request must not lift the ban")
	}
	if len(env.publisher.byName(EventRequestUnkick)) != 1 {
		t.Fatal("request-unkick event not published")
	}
}

func TestUnkickUser_OwnerRoleMapsToHost(t *testing.T) {
	env := newTestEnv()
	hostID := uuid.New()
	targetID := uuid.New()

	call := &entities.Call{RoomID: "aaa-bbbb-ccc", TeamID: uuid.New()}
	banned := gone(call.ID, targetID, entities.CallRoleBanned)
	call.Participants = []*entities.CallParticipant{
		present(call.ID, hostID, entities.CallRoleHost),
		banned,
	}
	env.seedCall(call)
	env.gateway.roles[targetID] = entities.TeamRoleOwner

	if _, err := env.service.UnkickUser(context.Background(), hostID, targetID, call.RoomID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if banned.Role != entities.CallRoleHost {
		t.Fatalf("team OWNER should map to call HOST, got %s", banned.Role)
	}
}

func TestModeration_UnknownRoom(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.KickUser(context.Background(), uuid.New(), uuid.New(), "zzz-zzzz-zzz")
	if !errors.Is(err, usecaseErrors.ErrCallNotFound) {
		t.Fatalf("expected ErrCallNotFound got %v", err)
	}
}
