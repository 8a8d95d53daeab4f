package domain

import "time"

// ActivityKind identifies what happened in an ActivityEvent.
type ActivityKind string

const (
	ActivityUserSignedUp       ActivityKind = "user.signed_up"
	ActivityCategoryCreated    ActivityKind = "category.created"
	ActivityCategoryDeleted    ActivityKind = "category.deleted"
	ActivityTransactionCreated ActivityKind = "transaction.created"
	ActivityTransactionDeleted ActivityKind = "transaction.deleted"
)

// ActivityEvent is an after-the-fact record of a successful write.
type ActivityEvent struct {
	Kind     ActivityKind `json:"kind"`
	UserID   int64        `json:"user_id"`
	Username string       `json:"username"`
	EntityID int64        `json:"entity_id,omitempty"`
	At       time.Time    `json:"at"`
}
