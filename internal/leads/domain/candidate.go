// Package domain provides core business rules for the lead conversion
// bounded context.
package domain

// Candidate profile stages. A candidate tracks how complete a participation's
// contact data is before it may be converted into a lead.
const (
	CandidateStageNew       = "NEW"
	CandidateStageEnriching = "ENRICHING"
	CandidateStageReady     = "READY"
	CandidateStageConverted = "CONVERTED"
)

// DefaultLeadStatus is assigned when the caller supplies no status.
const DefaultLeadStatus = "potential"
