package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action represents the action that occurred.
type Action string

const (
	ActionCreate Action = "Create"
	ActionEdit   Action = "Edit"
	ActionDelete Action = "Delete"
	ActionLogin  Action = "Login"
)

// Entity names the kind of record an event touched.
type Entity string

const (
	EntityCustomer    Entity = "Customer"
	EntityMeasurement Entity = "Measurement"
	EntityOrder       Entity = "Order"
	EntityAccount     Entity = "Account"
)

// Event is one line of shop history.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    Action    `json:"action"`
	Entity    Entity    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Details   string    `json:"details"`
}

// NewEvent creates a history event stamped with now.
// PRE: action and entity are non-empty
// POST: Returns an Event with a fresh ID
func NewEvent(actorID, actorName string, action Action, entity Entity, entityID, details string, now time.Time) Event {
	return Event{
		ID:        uuid.New().String(),
		Timestamp: now,
		ActorID:   actorID,
		ActorName: actorName,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
	}
}
