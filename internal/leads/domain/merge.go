package domain

import "strings"

// ContactFields are the contact values recorded on a participation at
// registration time. They act as fallback data during a merge.
type ContactFields struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// LeadDraft is the fully resolved set of values a new lead is created from.
type LeadDraft struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Company  string
	Position string
	Status   string
	Referrer string
}

// LeadInput is the caller-supplied lead payload after validation.
type LeadInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Company  string
	Position string
	Status   string
}

// EventReferrer builds the referrer note naming the source event.
func EventReferrer(eventTitle string) string {
	return "Event participation: " + eventTitle
}

// orFallback returns the caller value when non-blank, else the fallback.
func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

// MergeWithParticipation resolves a lead draft with participation data
// backfilling caller-supplied data: each contact field uses the caller's
// value if provided, else falls back to the participation's recorded value.
// Company and position have no participation counterpart and are taken
// verbatim. The referrer note naming the source event is always attached.
func MergeWithParticipation(input LeadInput, fallback ContactFields, eventTitle string) LeadDraft {
	return LeadDraft{
		Name:     orFallback(input.Name, fallback.Name),
		Email:    orFallback(input.Email, fallback.Email),
		Phone:    orFallback(input.Phone, fallback.Phone),
		Address:  orFallback(input.Address, fallback.Address),
		Company:  input.Company,
		Position: input.Position,
		Status:   orFallback(input.Status, DefaultLeadStatus),
		Referrer: EventReferrer(eventTitle),
	}
}

// VerbatimDraft resolves a lead draft from the caller payload alone,
// with no participation fallback and no referrer note.
func VerbatimDraft(input LeadInput) LeadDraft {
	return LeadDraft{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Company:  input.Company,
		Position: input.Position,
		Status:   orFallback(input.Status, DefaultLeadStatus),
	}
}

// ParticipationDraft resolves a lead draft entirely from participation data.
// Used by batch conversion, where no caller payload exists.
func ParticipationDraft(fallback ContactFields, eventTitle string) LeadDraft {
	return LeadDraft{
		Name:     fallback.Name,
		Email:    fallback.Email,
		Phone:    fallback.Phone,
		Address:  fallback.Address,
		Status:   DefaultLeadStatus,
		Referrer: EventReferrer(eventTitle),
	}
}
