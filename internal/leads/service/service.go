// Package service orchestrates lead conversion: authorization, lookups,
// deduplication, the merge policy, and the transactional mutation.
package service

import (
	"context"
	"errors"
	"fmt"

	"participant_portal_backend/internal/events"
	"participant_portal_backend/internal/leads/domain"
	"participant_portal_backend/internal/leads/repository"
	"participant_portal_backend/internal/leads/transport"
	"participant_portal_backend/platform/apperr"
	"participant_portal_backend/platform/httpkit"
	"participant_portal_backend/platform/logger"
	"participant_portal_backend/platform/phone"
	"participant_portal_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgAuthRequired          = "authentication required"
	msgNoOrganization        = "user does not belong to an organization"
	msgParticipationNotFound = "participation not found"
	msgDuplicateLead         = "a similar lead already exists"
	msgLeadCreateFailed      = "failed to create lead"
	msgNotReady              = "participation is not ready for lead conversion"

	activityTypeEvent   = "EVENT"
	activityTypeID      = "event-participation"
	duplicateSuggestion = "link the participation to the existing lead instead of creating a duplicate"
)

type Service struct {
	store repository.Store
	bus   events.Bus
	log   *logger.Logger
}

func New(store repository.Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// ConvertParticipation converts a single external participation into a new
// lead. Either the lead is created, linked, and logged atomically, or no
// state changes at all.
func (s *Service) ConvertParticipation(ctx context.Context, caller httpkit.Identity, req transport.CreateLeadRequest) (transport.CreateLeadResponse, error) {
	orgID, err := s.resolveOrganization(ctx, caller)
	if err != nil {
		return transport.CreateLeadResponse{}, err
	}

	participation, err := s.store.FindConvertibleParticipation(ctx, req.ParticipationID, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.CreateLeadResponse{}, apperr.NotFound(msgParticipationNotFound).WithCode(apperr.CodeParticipationMissing)
	}
	if err != nil {
		s.log.DatabaseError("leads.find_participation", err)
		return transport.CreateLeadResponse{}, apperr.Internal(msgLeadCreateFailed)
	}

	input := cleanInput(req.LeadData)

	criteria := domain.DuplicateCriteria{Email: input.Email, Name: input.Name, Phone: input.Phone}
	if criteria.HasConditions() {
		duplicate, err := s.store.FindDuplicateLead(ctx, orgID, criteria)
		if err != nil {
			s.log.DatabaseError("leads.find_duplicate", err)
			return transport.CreateLeadResponse{}, apperr.Internal(msgLeadCreateFailed)
		}
		if duplicate != nil {
			return transport.CreateLeadResponse{}, apperr.Conflict(msgDuplicateLead).
				WithCode(apperr.CodeDuplicateLead).
				WithDetails(transport.DuplicateLeadDetails{
					ExistingLead: leadSummary(*duplicate),
					Suggestion:   duplicateSuggestion,
				})
		}
	}

	var draft domain.LeadDraft
	if req.Merge() {
		draft = domain.MergeWithParticipation(input, contactFields(participation), participation.EventTitle)
	} else {
		draft = domain.VerbatimDraft(input)
	}

	candidateUpdate := repository.CandidateUpdateNone
	if participation.Candidate != nil {
		candidateUpdate = repository.CandidateUpdateConverted
	}

	lead, err := s.store.Convert(ctx, repository.ConvertParams{
		ParticipationID: participation.ID,
		OrganizationID:  orgID,
		Lead:            leadParams(draft, orgID),
		Candidate:       candidateUpdate,
		Activity: &repository.ActivityParams{
			Type:        activityTypeEvent,
			TypeID:      activityTypeID,
			Description: fmt.Sprintf("Participated in event %q", participation.EventTitle),
		},
	})
	if err != nil {
		return transport.CreateLeadResponse{}, s.convertError(err)
	}

	s.publishConverted(ctx, lead.ID, participation.ID, orgID, false)

	actions := []string{
		transport.ActionLeadCreated,
		transport.ActionParticipationLinked,
		transport.ActionActivityLogged,
	}
	if participation.Candidate != nil {
		actions = append(actions, transport.ActionCandidateUpdated)
	}

	return transport.CreateLeadResponse{
		Message:          "created a new lead and linked the participation",
		Lead:             leadSummary(lead),
		ActionsPerformed: actions,
	}, nil
}

// ConvertBatch attempts automatic conversion of each participation using only
// participation-derived data. Failures are isolated per item: each item runs
// in its own transaction and one failure never affects another item.
func (s *Service) ConvertBatch(ctx context.Context, caller httpkit.Identity, req transport.BatchConvertRequest) (transport.BatchConvertResponse, error) {
	orgID, err := s.resolveOrganization(ctx, caller)
	if err != nil {
		return transport.BatchConvertResponse{}, err
	}

	results := make([]transport.BatchItemResult, 0, len(req.ParticipationIDs))
	itemErrors := make([]transport.BatchItemError, 0)

	for _, participationID := range req.ParticipationIDs {
		result, itemErr := s.convertBatchItem(ctx, orgID, participationID)
		if itemErr != nil {
			itemErrors = append(itemErrors, *itemErr)
			continue
		}
		results = append(results, *result)
	}

	return transport.BatchConvertResponse{
		Message: "batch lead conversion completed",
		Summary: transport.BatchSummary{
			Total:   len(req.ParticipationIDs),
			Success: len(results),
			Errors:  len(itemErrors),
		},
		Results: results,
		Errors:  itemErrors,
	}, nil
}

func (s *Service) convertBatchItem(ctx context.Context, orgID, participationID uuid.UUID) (*transport.BatchItemResult, *transport.BatchItemError) {
	participation, err := s.store.FindConvertibleParticipation(ctx, participationID, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &transport.BatchItemError{ParticipationID: participationID, Error: msgParticipationNotFound}
	}
	if err != nil {
		s.log.DatabaseError("leads.find_participation", err)
		return nil, &transport.BatchItemError{ParticipationID: participationID, Error: msgLeadCreateFailed}
	}

	// Only candidates explicitly flagged ready may be auto-converted. The
	// error entry surfaces the current completeness so the UI can show how
	// far along enrichment is.
	if participation.Candidate == nil || !participation.Candidate.ReadyForLead {
		completeness := 0.0
		if participation.Candidate != nil {
			completeness = participation.Candidate.Completeness
		}
		return nil, &transport.BatchItemError{
			ParticipationID: participationID,
			Error:           msgNotReady,
			Completeness:    &completeness,
		}
	}

	draft := domain.ParticipationDraft(contactFields(participation), participation.EventTitle)

	lead, err := s.store.Convert(ctx, repository.ConvertParams{
		ParticipationID: participation.ID,
		OrganizationID:  orgID,
		Lead:            leadParams(draft, orgID),
		Candidate:       repository.CandidateUpdateStageOnly,
	})
	if err != nil {
		return nil, &transport.BatchItemError{ParticipationID: participationID, Error: batchErrorMessage(err, s.log)}
	}

	s.publishConverted(ctx, lead.ID, participation.ID, orgID, true)

	return &transport.BatchItemResult{
		ParticipationID: participationID,
		LeadID:          lead.ID,
		Status:          "success",
	}, nil
}

// resolveOrganization checks authentication and organization membership.
// Every subsequent query is scoped to the returned organization.
func (s *Service) resolveOrganization(ctx context.Context, caller httpkit.Identity) (uuid.UUID, error) {
	if caller == nil || !caller.IsAuthenticated() {
		return uuid.Nil, apperr.Unauthorized(msgAuthRequired)
	}

	orgID, err := s.store.CallerOrganization(ctx, caller.UserID())
	if errors.Is(err, repository.ErrNotFound) || (err == nil && orgID == nil) {
		return uuid.Nil, apperr.NotFound(msgNoOrganization).WithCode(apperr.CodeNoOrganization)
	}
	if err != nil {
		s.log.DatabaseError("leads.caller_organization", err)
		return uuid.Nil, apperr.Internal(msgLeadCreateFailed)
	}
	return *orgID, nil
}

func (s *Service) convertError(err error) error {
	switch {
	case errors.Is(err, repository.ErrAlreadyLinked):
		// A concurrent request won the link race; to this caller the
		// convertible participation no longer exists.
		return apperr.NotFound(msgParticipationNotFound).WithCode(apperr.CodeParticipationMissing)
	case errors.Is(err, repository.ErrDuplicateLead):
		return apperr.Conflict(msgDuplicateLead).WithCode(apperr.CodeDuplicateLead)
	default:
		s.log.DatabaseError("leads.convert", err)
		return apperr.Internal(msgLeadCreateFailed)
	}
}

func (s *Service) publishConverted(ctx context.Context, leadID, participationID, orgID uuid.UUID, batch bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.LeadConverted{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          leadID,
		ParticipationID: participationID,
		OrganizationID:  orgID,
		Batch:           batch,
	})
}

func batchErrorMessage(err error, log *logger.Logger) string {
	switch {
	case errors.Is(err, repository.ErrAlreadyLinked):
		return "participation is already linked to a lead"
	case errors.Is(err, repository.ErrDuplicateLead):
		return msgDuplicateLead
	default:
		log.DatabaseError("leads.convert", err)
		return msgLeadCreateFailed
	}
}

// cleanInput sanitizes free-text fields and normalizes the phone number so
// dedup matching compares like with like.
func cleanInput(data transport.LeadData) domain.LeadInput {
	input := domain.LeadInput{
		Name:     sanitize.Text(data.Name),
		Email:    data.Email,
		Phone:    data.Phone,
		Address:  sanitize.Text(data.Address),
		Company:  sanitize.Text(data.Company),
		Position: sanitize.Text(data.Position),
		Status:   data.Status,
	}
	if input.Phone != "" {
		input.Phone = phone.NormalizeE164(input.Phone)
	}
	return input
}

// contactFields extracts the participation's recorded contact values,
// normalizing the phone the same way caller input is normalized.
func contactFields(p repository.Participation) domain.ContactFields {
	fields := domain.ContactFields{
		Name:    p.Name,
		Email:   deref(p.Email),
		Phone:   deref(p.Phone),
		Address: deref(p.Address),
	}
	if fields.Phone != "" {
		fields.Phone = phone.NormalizeE164(fields.Phone)
	}
	return fields
}

func leadParams(draft domain.LeadDraft, orgID uuid.UUID) repository.CreateLeadParams {
	return repository.CreateLeadParams{
		OrganizationID: orgID,
		Name:           draft.Name,
		Email:          nullable(draft.Email),
		Phone:          nullable(draft.Phone),
		Address:        nullable(draft.Address),
		Company:        nullable(draft.Company),
		Position:       nullable(draft.Position),
		Status:         draft.Status,
		Referrer:       nullable(draft.Referrer),
	}
}

func leadSummary(lead repository.Lead) transport.LeadSummary {
	return transport.LeadSummary{
		ID:      lead.ID,
		Name:    lead.Name,
		Email:   lead.Email,
		Phone:   lead.Phone,
		Address: lead.Address,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
