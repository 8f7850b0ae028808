package repository

import (
	"context"

	"participant_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// CandidateUpdate selects how the candidate profile is mutated inside the
// conversion transaction.
type CandidateUpdate int

const (
	// CandidateUpdateNone leaves the candidate untouched (or absent).
	CandidateUpdateNone CandidateUpdate = iota
	// CandidateUpdateConverted marks the candidate CONVERTED, ready, and
	// fully complete. Used by the single conversion's full merge.
	CandidateUpdateConverted
	// CandidateUpdateStageOnly transitions the stage to CONVERTED without
	// touching readiness or completeness. Used by batch conversion.
	CandidateUpdateStageOnly
)

// CreateLeadParams are the resolved values for the new lead row.
type CreateLeadParams struct {
	OrganizationID uuid.UUID
	Name           string
	Email          *string
	Phone          *string
	Address        *string
	Company        *string
	Position       *string
	Status         string
	Referrer       *string
}

// ActivityParams describe the audit-log entry appended with the conversion.
type ActivityParams struct {
	Type        string
	TypeID      string
	Description string
}

// ConvertParams drive one atomic conversion.
type ConvertParams struct {
	ParticipationID uuid.UUID
	OrganizationID  uuid.UUID
	Lead            CreateLeadParams
	Candidate       CandidateUpdate
	Activity        *ActivityParams
}

const insertLeadStmt = `
	INSERT INTO leads (organization_id, name, email, phone, address, company, position, status, referrer)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, organization_id, name, email, phone, address, company, position, status, referrer, created_at, updated_at
`

const linkParticipationStmt = `
	UPDATE event_participations
	SET lead_id = $2
	WHERE id = $1 AND organization_id = $3 AND lead_id IS NULL
`

const updateCandidateConvertedStmt = `
	UPDATE lead_candidates
	SET stage = $2, ready_for_lead = true, completeness = 1.0, updated_at = now()
	WHERE participation_id = $1
`

const updateCandidateStageStmt = `
	UPDATE lead_candidates
	SET stage = $2, updated_at = now()
	WHERE participation_id = $1
`

const insertActivityStmt = `
	INSERT INTO lead_activities (lead_id, organization_id, type, type_id, description)
	VALUES ($1, $2, $3, $4, $5)
`

// Convert creates the lead, links the participation, updates the candidate
// profile, and appends the activity entry in a single transaction. The link
// update re-checks the not-yet-linked precondition so that two concurrent
// conversions of the same participation cannot both commit.
func (r *Repository) Convert(ctx context.Context, params ConvertParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var lead Lead
	err = tx.QueryRow(ctx, insertLeadStmt,
		params.Lead.OrganizationID, params.Lead.Name, params.Lead.Email, params.Lead.Phone,
		params.Lead.Address, params.Lead.Company, params.Lead.Position, params.Lead.Status,
		params.Lead.Referrer,
	).Scan(
		&lead.ID, &lead.OrganizationID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.Address, &lead.Company, &lead.Position, &lead.Status, &lead.Referrer,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicateLead
		}
		return Lead{}, err
	}

	tag, err := tx.Exec(ctx, linkParticipationStmt, params.ParticipationID, lead.ID, params.OrganizationID)
	if err != nil {
		return Lead{}, err
	}
	if tag.RowsAffected() == 0 {
		err = ErrAlreadyLinked
		return Lead{}, err
	}

	switch params.Candidate {
	case CandidateUpdateConverted:
		if _, err = tx.Exec(ctx, updateCandidateConvertedStmt, params.ParticipationID, domain.CandidateStageConverted); err != nil {
			return Lead{}, err
		}
	case CandidateUpdateStageOnly:
		if _, err = tx.Exec(ctx, updateCandidateStageStmt, params.ParticipationID, domain.CandidateStageConverted); err != nil {
			return Lead{}, err
		}
	}

	if params.Activity != nil {
		if _, err = tx.Exec(ctx, insertActivityStmt,
			lead.ID, params.OrganizationID, params.Activity.Type, params.Activity.TypeID, params.Activity.Description,
		); err != nil {
			return Lead{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Lead{}, err
	}

	return lead, nil
}
