package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type ActivityKind string

const (
	ActivityKindAchievement ActivityKind = "achievement"
)

// Activity is a feed entry written as a non-critical side effect of an
// enrollment. Failures to write one never block an entitlement grant.
type Activity struct {
	ID        string // ULID, sortable by creation time
	UserID    string
	Action    string
	Kind      ActivityKind
	CreatedAt time.Time
}

func NewActivity(userID, action string, kind ActivityKind) *Activity {
	return &Activity{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Action:    action,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
}
