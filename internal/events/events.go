package events

import (
	platformevents "participant_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Event re-exports for module convenience.
type (
	Event       = platformevents.Event
	Handler     = platformevents.Handler
	HandlerFunc = platformevents.HandlerFunc
	Bus         = platformevents.Bus
	BaseEvent   = platformevents.BaseEvent
)

// NewBaseEvent creates a new base event with the current timestamp.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// LeadConverted is published after a participation has been converted into a
// lead and the transaction committed.
type LeadConverted struct {
	BaseEvent
	LeadID          uuid.UUID `json:"leadId"`
	ParticipationID uuid.UUID `json:"participationId"`
	OrganizationID  uuid.UUID `json:"organizationId"`
	Batch           bool      `json:"batch"`
}

// EventName returns the unique event identifier.
func (e LeadConverted) EventName() string {
	return "leads.converted"
}
