package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeClaimSubmitted    = "claim.submitted"
	EventTypeClaimTransitioned = "claim.transitioned"
	EventTypeClaimDeleted      = "claim.deleted"
)

type ClaimSubmittedEvent struct {
	BaseEvent
	ClaimID int64  `json:"claim_id"`
	OwnerID int64  `json:"owner_id"`
	Amount  string `json:"amount"`
}

func NewClaimSubmittedEvent(claimID, ownerID int64, amount string) *ClaimSubmittedEvent {
	return &ClaimSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeClaimSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"claim_id": claimID,
				"owner_id": ownerID,
				"amount":   amount,
			},
		},
		ClaimID: claimID,
		OwnerID: ownerID,
		Amount:  amount,
	}
}

// ClaimTransitionedEvent records a status change as an audit trail entry:
// which actor moved which claim between which statuses.
type ClaimTransitionedEvent struct {
	BaseEvent
	ClaimID    int64  `json:"claim_id"`
	ActorID    int64  `json:"actor_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

func NewClaimTransitionedEvent(claimID, actorID int64, fromStatus, toStatus string) *ClaimTransitionedEvent {
	return &ClaimTransitionedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeClaimTransitioned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"claim_id":    claimID,
				"actor_id":    actorID,
				"from_status": fromStatus,
				"to_status":   toStatus,
			},
		},
		ClaimID:    claimID,
		ActorID:    actorID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	}
}

type ClaimDeletedEvent struct {
	BaseEvent
	ClaimID int64 `json:"claim_id"`
	OwnerID int64 `json:"owner_id"`
}

func NewClaimDeletedEvent(claimID, ownerID int64) *ClaimDeletedEvent {
	return &ClaimDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeClaimDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"claim_id": claimID,
				"owner_id": ownerID,
			},
		},
		ClaimID: claimID,
		OwnerID: ownerID,
	}
}
