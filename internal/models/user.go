package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the local operator account. The deployment model is single-user;
// every owned entity carries the user's id anyway so an export stays
// attributable.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks the username.
func (u *User) Validate() error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return fmt.Errorf("a username is required: %w", ErrValidation)
	}
	if len(u.Username) > maxTitleLen {
		return fmt.Errorf("username exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	return nil
}

// OperationKind labels what a mutating controller call did.
type OperationKind string

const (
	OpCreate   OperationKind = "create"
	OpUpdate   OperationKind = "update"
	OpDelete   OperationKind = "delete"
	OpAttach   OperationKind = "attach"
	OpDetach   OperationKind = "detach"
	OpMove     OperationKind = "move"
	OpDispatch OperationKind = "dispatch"
)

const maxSummaryLen = 250

// Activity is the audit record appended by every mutating controller call
// and by assistant dispatches. Dispatch rows double as conversation history
// for the assistant context manager: SessionID groups the turns of one
// assistant session and Detail carries the prompt/response text.
type Activity struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	UserID     uuid.UUID     `db:"user_id" json:"userId"`
	EntityType EntityType    `db:"entity_type" json:"entityType"`
	EntityID   uuid.UUID     `db:"entity_id" json:"entityId"`
	Operation  OperationKind `db:"operation" json:"operation"`
	Summary    string        `db:"summary" json:"summary"`
	SessionID  uuid.UUID     `db:"session_id" json:"sessionId"`
	Detail     string        `db:"detail" json:"detail"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
}

// Validate caps the summary the way the original activity log did.
func (a *Activity) Validate() error {
	if len(a.Summary) > maxSummaryLen {
		return fmt.Errorf("activity summary exceeds %d characters: %w", maxSummaryLen, ErrValidation)
	}
	if a.EntityType != "" && !a.EntityType.Valid() {
		return fmt.Errorf("unknown entity type %q: %w", a.EntityType, ErrValidation)
	}
	return nil
}
