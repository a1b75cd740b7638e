// Package gateway is the client for the platform's permission-verification
// service, which owns team membership and roles.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/pkg/config"
)

// Client is a minimal JSON-over-HTTP client for the permission gateway
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a permission-gateway client. The timeout is the short
// default used for request-time RPCs.
func NewClient(cfg *config.GatewayConfig) *Client {
	timeout := 5 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	var base string
	if cfg != nil {
		base = cfg.BaseURL
	}

	return &Client{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	TeamID uuid.UUID           `json:"team_id"`
	UserID uuid.UUID           `json:"user_id"`
	Roles  []entities.TeamRole `json:"roles"`
}

type verifyResponse struct {
	Allowed bool `json:"allowed"`
}

type roleResponse struct {
	Role entities.TeamRole `json:"role"`
}

// VerifyMembership checks whether the user holds any of the given roles in
// the team.
func (c *Client) VerifyMembership(ctx context.Context, teamID, userID uuid.UUID, roles []entities.TeamRole) (bool, error) {
	body, err := json.Marshal(verifyRequest{TeamID: teamID, UserID: userID, Roles: roles})
	if err != nil {
		return false, err
	}

	endpoint := c.baseURL + "/internal/permissions/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("permission gateway returned status %d", resp.StatusCode)
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return false, err
	}
	return vr.Allowed, nil
}

// MemberRole fetches the user's current role in the team
func (c *Client) MemberRole(ctx context.Context, teamID, userID uuid.UUID) (entities.TeamRole, error) {
	endpoint := fmt.Sprintf("%s/internal/teams/%s/members/%s/role", c.baseURL, teamID, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("role lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("permission gateway returned status %d", resp.StatusCode)
	}

	var rr roleResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", err
	}
	return rr.Role, nil
}
