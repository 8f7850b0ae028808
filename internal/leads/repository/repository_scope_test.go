package repository

import (
	"strings"
	"testing"
)

func TestFindParticipationQueryIsConversionScoped(t *testing.T) {
	query := strings.ToLower(findParticipationQuery)

	requiredFragments := []string{
		"from event_participations p",
		"join events e on e.id = p.event_id",
		"left join lead_candidates c on c.participation_id = p.id",
		"p.organization_id = $2",
		"p.is_external = true",
		"p.lead_id is null",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected conversion-scoped query fragment %q to be present", fragment)
		}
	}
}

func TestLinkParticipationRechecksUnlinkedState(t *testing.T) {
	stmt := strings.ToLower(linkParticipationStmt)

	// The guarded update is the concurrency arbiter: without the lead_id
	// re-check two conversions of the same participation could both commit.
	if !strings.Contains(stmt, "lead_id is null") {
		t.Fatal("link update must re-check that the participation is still unlinked")
	}
	if !strings.Contains(stmt, "organization_id = $3") {
		t.Fatal("link update must stay scoped to the caller's organization")
	}
}

func TestCandidateUpdatesTargetParticipation(t *testing.T) {
	for name, stmt := range map[string]string{
		"converted":  updateCandidateConvertedStmt,
		"stage-only": updateCandidateStageStmt,
	} {
		lowered := strings.ToLower(stmt)
		if !strings.Contains(lowered, "where participation_id = $1") {
			t.Fatalf("%s candidate update must target the participation", name)
		}
	}

	converted := strings.ToLower(updateCandidateConvertedStmt)
	if !strings.Contains(converted, "ready_for_lead = true") || !strings.Contains(converted, "completeness = 1.0") {
		t.Fatal("converted update must mark the candidate ready and complete")
	}

	stageOnly := strings.ToLower(updateCandidateStageStmt)
	if strings.Contains(stageOnly, "ready_for_lead") || strings.Contains(stageOnly, "completeness") {
		t.Fatal("stage-only update must not touch readiness or completeness")
	}
}

func TestInsertLeadReturnsFullRow(t *testing.T) {
	stmt := strings.ToLower(insertLeadStmt)

	if !strings.Contains(stmt, "returning id, organization_id, name, email, phone") {
		t.Fatal("lead insert must return the created row for the response payload")
	}
}

func TestCallerOrganizationQueryLooksUpByUserID(t *testing.T) {
	query := strings.ToLower(callerOrganizationQuery)

	if !strings.Contains(query, "from users") || !strings.Contains(query, "where id = $1") {
		t.Fatal("caller organization lookup must select by user id")
	}
}
