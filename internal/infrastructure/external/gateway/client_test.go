package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/pkg/config"
)

func TestVerifyMembership(t *testing.T) {
	teamID := uuid.New()
	userID := uuid.New()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/internal/permissions/verify" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload struct {
			TeamID uuid.UUID `json:"team_id"`
			UserID uuid.UUID `json:"user_id"`
			Roles  []string  `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.TeamID != teamID || payload.UserID != userID {
			t.Fatalf("wrong identifiers in payload: %+v", payload)
		}
		if len(payload.Roles) != 3 {
			t.Fatalf("expected 3 roles got %d", len(payload.Roles))
		}
		json.NewEncoder(w).Encode(map[string]bool{"allowed": true})
	}))
	defer ts.Close()

	client := NewClient(&config.GatewayConfig{BaseURL: ts.URL})
	allowed, err := client.VerifyMembership(context.Background(), teamID, userID, []entities.TeamRole{
		entities.TeamRoleOwner,
		entities.TeamRoleAdmin,
		entities.TeamRoleMember,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("expected allowed")
	}
}

func TestMemberRole(t *testing.T) {
	teamID := uuid.New()
	userID := uuid.New()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := fmt.Sprintf("/internal/teams/%s/members/%s/role", teamID, userID)
		if r.URL.Path != want {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"role": "ADMIN"})
	}))
	defer ts.Close()

	client := NewClient(&config.GatewayConfig{BaseURL: ts.URL})
	role, err := client.MemberRole(context.Background(), teamID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != entities.TeamRoleAdmin {
		t.Fatalf("expected ADMIN got %s", role)
	}
}

func TestVerifyMembership_GatewayError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(&config.GatewayConfig{BaseURL: ts.URL})
	if _, err := client.VerifyMembership(context.Background(), uuid.New(), uuid.New(), nil); err == nil {
		t.Fatal("expected an error on 500")
	}
}
