// Package repository provides Postgres persistence for the lead conversion
// bounded context. Every query is scoped to the caller's organization.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"participant_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the requested row does not exist in the caller's scope.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyLinked indicates the participation gained a lead link between
	// the lookup and the transactional re-check.
	ErrAlreadyLinked = errors.New("participation already linked to a lead")
	// ErrDuplicateLead indicates the unique lead constraint rejected the insert.
	ErrDuplicateLead = errors.New("a matching lead already exists")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead mirrors a row of the leads table.
type Lead struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Email          *string
	Phone          *string
	Address        *string
	Company        *string
	Position       *string
	Status         string
	Referrer       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Candidate mirrors a row of the lead_candidates table.
type Candidate struct {
	ID              uuid.UUID
	ParticipationID uuid.UUID
	Stage           string
	ReadyForLead    bool
	Completeness    float64
}

// Participation is an external event participation joined with its event
// title and optional candidate profile.
type Participation struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	EventID        uuid.UUID
	EventTitle     string
	Name           string
	Email          *string
	Phone          *string
	Address        *string
	Candidate      *Candidate
}

const callerOrganizationQuery = `
	SELECT org_id
	FROM users
	WHERE id = $1
`

// CallerOrganization returns the caller's organization reference, which may
// be nil when the user is registered but unaffiliated.
func (r *Repository) CallerOrganization(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	var orgID *uuid.UUID
	err := r.pool.QueryRow(ctx, callerOrganizationQuery, userID).Scan(&orgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return orgID, nil
}

const findParticipationQuery = `
	SELECT p.id, p.organization_id, p.event_id, e.title,
		p.participant_name, p.participant_email, p.participant_phone, p.participant_address,
		c.id, c.stage, c.ready_for_lead, c.completeness
	FROM event_participations p
	JOIN events e ON e.id = p.event_id
	LEFT JOIN lead_candidates c ON c.participation_id = p.id
	WHERE p.id = $1 AND p.organization_id = $2 AND p.is_external = true AND p.lead_id IS NULL
`

// FindConvertibleParticipation loads a participation that is still eligible
// for conversion: owned by the organization, external, and not yet linked.
func (r *Repository) FindConvertibleParticipation(ctx context.Context, id, organizationID uuid.UUID) (Participation, error) {
	var (
		p              Participation
		candidateID    *uuid.UUID
		candidateStage *string
		candidateReady *bool
		candidateScore *float64
	)
	err := r.pool.QueryRow(ctx, findParticipationQuery, id, organizationID).Scan(
		&p.ID, &p.OrganizationID, &p.EventID, &p.EventTitle,
		&p.Name, &p.Email, &p.Phone, &p.Address,
		&candidateID, &candidateStage, &candidateReady, &candidateScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Participation{}, ErrNotFound
	}
	if err != nil {
		return Participation{}, err
	}

	if candidateID != nil {
		p.Candidate = &Candidate{
			ID:              *candidateID,
			ParticipationID: p.ID,
			Stage:           derefString(candidateStage),
			ReadyForLead:    candidateReady != nil && *candidateReady,
			Completeness:    derefFloat(candidateScore),
		}
	}

	return p, nil
}

const duplicateLeadSelect = `
	SELECT id, organization_id, name, email, phone, address, company, position, status, referrer, created_at, updated_at
	FROM leads
`

// FindDuplicateLead searches the organization for an existing lead matching
// the criteria. Only non-empty conditions participate; with no conditions the
// search is skipped and nil is returned.
func (r *Repository) FindDuplicateLead(ctx context.Context, organizationID uuid.UUID, criteria domain.DuplicateCriteria) (*Lead, error) {
	args := []interface{}{organizationID}
	conditions := make([]string, 0, 2)

	if criteria.MatchByEmail() {
		args = append(args, criteria.Email)
		conditions = append(conditions, fmt.Sprintf("lower(email) = lower($%d)", len(args)))
	}
	if criteria.MatchByNamePhone() {
		args = append(args, criteria.Name, criteria.Phone)
		conditions = append(conditions, fmt.Sprintf("(name = $%d AND phone = $%d)", len(args)-1, len(args)))
	}
	if len(conditions) == 0 {
		return nil, nil
	}

	query := duplicateLeadSelect +
		"	WHERE organization_id = $1 AND (" + strings.Join(conditions, " OR ") + ")\n" +
		"	LIMIT 1"

	var lead Lead
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&lead.ID, &lead.OrganizationID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.Address, &lead.Company, &lead.Position, &lead.Status, &lead.Referrer,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
