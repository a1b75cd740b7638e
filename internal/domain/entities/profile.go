package entities

import "github.com/google/uuid"

// UserProfile is a profile record returned by the user directory
type UserProfile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}
