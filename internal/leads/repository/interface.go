package repository

import (
	"context"

	"participant_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Store is the persistence contract consumed by the service layer.
// *Repository is the Postgres implementation; tests provide fakes.
type Store interface {
	CallerOrganization(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
	FindConvertibleParticipation(ctx context.Context, id, organizationID uuid.UUID) (Participation, error)
	FindDuplicateLead(ctx context.Context, organizationID uuid.UUID, criteria domain.DuplicateCriteria) (*Lead, error)
	Convert(ctx context.Context, params ConvertParams) (Lead, error)
}

var _ Store = (*Repository)(nil)
