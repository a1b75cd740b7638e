// Package directory is the client for the platform's user-directory
// service, used for profile lookups.
package directory

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

// Client is a minimal JSON-over-HTTP client for the user directory
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a user-directory client
func NewClient(cfg *config.DirectoryConfig) *Client {
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

// Profile fetches one user profile
func (c *Client) Profile(ctx context.Context, userID uuid.UUID) (*entities.UserProfile, error) {
	endpoint := fmt.Sprintf("%s/internal/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("user directory returned status %d", resp.StatusCode)
	}

	var profile entities.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type batchRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

type batchResponse struct {
	Users []entities.UserProfile `json:"users"`
}

// Profiles fetches many profiles in one call. Missing users are simply
// absent from the result.
func (c *Client) Profiles(ctx context.Context, userIDs []uuid.UUID) ([]entities.UserProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(batchRequest{UserIDs: userIDs})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/internal/users/batch"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("batch profile lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("user directory returned status %d", resp.StatusCode)
	}

	var br batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, err
	}
	return br.Users, nil
}
