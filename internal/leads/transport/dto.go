// Package transport defines the request and response DTOs for the lead
// conversion HTTP surface.
package transport

import (
	"github.com/google/uuid"
)

// LeadData is the caller-supplied lead payload.
// Only the name is required; email must be well formed when present.
type LeadData struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address  string `json:"address,omitempty" validate:"omitempty,max=500"`
	Company  string `json:"company,omitempty" validate:"omitempty,max=200"`
	Position string `json:"position,omitempty" validate:"omitempty,max=200"`
	Status   string `json:"status,omitempty" validate:"omitempty,max=50"`
}

// CreateLeadRequest converts a single participation into a new lead.
type CreateLeadRequest struct {
	ParticipationID   uuid.UUID `json:"participationId" validate:"required"`
	LeadData          LeadData  `json:"leadData" validate:"required"`
	MergeExistingData *bool     `json:"mergeExistingData,omitempty"`
}

// Merge resolves the merge flag, which defaults to true when absent.
func (r CreateLeadRequest) Merge() bool {
	return r.MergeExistingData == nil || *r.MergeExistingData
}

// BatchConvertRequest converts a list of participations automatically.
// An empty list is valid and folds to an empty summary; unknown or
// zero-value ids surface as per-item errors, never as a request failure.
type BatchConvertRequest struct {
	ParticipationIDs []uuid.UUID `json:"participationIds"`
}

// LeadSummary is the created or colliding lead's identifying fields.
type LeadSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   *string   `json:"email"`
	Phone   *string   `json:"phone"`
	Address *string   `json:"address,omitempty"`
}

// Side actions reported in a successful conversion response.
const (
	ActionLeadCreated         = "lead_created"
	ActionParticipationLinked = "participation_linked"
	ActionActivityLogged      = "activity_logged"
	ActionCandidateUpdated    = "candidate_profile_updated"
)

// CreateLeadResponse is the 201 payload for a single conversion.
type CreateLeadResponse struct {
	Message          string      `json:"message"`
	Lead             LeadSummary `json:"lead"`
	ActionsPerformed []string    `json:"actionsPerformed"`
}

// DuplicateLeadDetails surface the colliding lead on a 409 response,
// with a suggestion to link manually instead of creating a duplicate.
type DuplicateLeadDetails struct {
	ExistingLead LeadSummary `json:"existingLead"`
	Suggestion   string      `json:"suggestion"`
}

// BatchItemResult records one successful batch conversion.
type BatchItemResult struct {
	ParticipationID uuid.UUID `json:"participationId"`
	LeadID          uuid.UUID `json:"leadId"`
	Status          string    `json:"status"`
}

// BatchItemError records one failed batch item. Completeness is present
// only when the item failed the readiness check.
type BatchItemError struct {
	ParticipationID uuid.UUID `json:"participationId"`
	Error           string    `json:"error"`
	Completeness    *float64  `json:"completeness,omitempty"`
}

// BatchSummary aggregates the batch outcome.
type BatchSummary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Errors  int `json:"errors"`
}

// BatchConvertResponse is the 200 payload for a batch conversion.
type BatchConvertResponse struct {
	Message string            `json:"message"`
	Summary BatchSummary      `json:"summary"`
	Results []BatchItemResult `json:"results"`
	Errors  []BatchItemError  `json:"errors"`
}
