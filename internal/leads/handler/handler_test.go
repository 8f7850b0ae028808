package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"participant_portal_backend/internal/leads/transport"
	"participant_portal_backend/platform/apperr"
	"participant_portal_backend/platform/httpkit"
	"participant_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeService struct {
	createResp transport.CreateLeadResponse
	createErr  error
	batchResp  transport.BatchConvertResponse
	batchErr   error
	calls      int
}

func (f *fakeService) ConvertParticipation(_ context.Context, _ httpkit.Identity, _ transport.CreateLeadRequest) (transport.CreateLeadResponse, error) {
	f.calls++
	return f.createResp, f.createErr
}

func (f *fakeService) ConvertBatch(_ context.Context, _ httpkit.Identity, _ transport.BatchConvertRequest) (transport.BatchConvertResponse, error) {
	f.calls++
	return f.batchResp, f.batchErr
}

var _ ConversionService = (*fakeService)(nil)

func newTestRouter(svc ConversionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(svc, validator.New()).RegisterRoutes(router.Group("/api/v1/lead-management"))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/lead-management/create-lead", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httpkit.ErrorResponse {
	t.Helper()
	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestCreateLead_MalformedBodyReturns400(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	rec := doRequest(t, router, http.MethodPost, "{not json")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != apperr.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT code, got %q", resp.Code)
	}
	if svc.calls != 0 {
		t.Fatal("malformed body must not reach the service")
	}
}

func TestCreateLead_MissingNameReturns400WithFieldDetails(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	body := fmt.Sprintf(`{"participationId":%q,"leadData":{"email":"taro@example.com"}}`, uuid.New())
	rec := doRequest(t, router, http.MethodPost, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Code != apperr.CodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT code, got %q", resp.Code)
	}
	details, ok := resp.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected field details, got %T", resp.Details)
	}
	if len(details) == 0 {
		t.Fatal("expected at least one field error")
	}
}

func TestCreateLead_InvalidEmailReturns400(t *testing.T) {
	router := newTestRouter(&fakeService{})

	body := fmt.Sprintf(`{"participationId":%q,"leadData":{"name":"Taro","email":"not-an-email"}}`, uuid.New())
	rec := doRequest(t, router, http.MethodPost, body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateLead_SuccessReturns201(t *testing.T) {
	leadID := uuid.New()
	svc := &fakeService{
		createResp: transport.CreateLeadResponse{
			Message:          "created a new lead and linked the participation",
			Lead:             transport.LeadSummary{ID: leadID, Name: "Taro Yamada"},
			ActionsPerformed: []string{"lead_created", "participation_linked", "activity_logged"},
		},
	}
	router := newTestRouter(svc)

	body := fmt.Sprintf(`{"participationId":%q,"leadData":{"name":"Taro Yamada"}}`, uuid.New())
	rec := doRequest(t, router, http.MethodPost, body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.CreateLeadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Lead.ID != leadID {
		t.Fatalf("expected lead %s, got %s", leadID, resp.Lead.ID)
	}
	if len(resp.ActionsPerformed) != 3 {
		t.Fatalf("unexpected actions %v", resp.ActionsPerformed)
	}
}

func TestCreateLead_ServiceConflictPassesThrough(t *testing.T) {
	svc := &fakeService{
		createErr: apperr.Conflict("a similar lead already exists").WithCode(apperr.CodeDuplicateLead),
	}
	router := newTestRouter(svc)

	body := fmt.Sprintf(`{"participationId":%q,"leadData":{"name":"Taro Yamada"}}`, uuid.New())
	rec := doRequest(t, router, http.MethodPost, body)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != apperr.CodeDuplicateLead {
		t.Fatalf("expected DUPLICATE_LEAD code, got %q", resp.Code)
	}
}

func TestCreateLeadBatch_MalformedBodyReturns500(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	// A malformed batch body is an operation failure, not a per-item failure.
	rec := doRequest(t, router, http.MethodPut, "{not json")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != apperr.CodeInternal {
		t.Fatalf("expected INTERNAL code, got %q", resp.Code)
	}
	if svc.calls != 0 {
		t.Fatal("malformed batch body must not reach the service")
	}
}

func TestCreateLeadBatch_EmptyListIsAValidRequest(t *testing.T) {
	svc := &fakeService{
		batchResp: transport.BatchConvertResponse{
			Message: "batch lead conversion completed",
			Summary: transport.BatchSummary{},
			Results: []transport.BatchItemResult{},
			Errors:  []transport.BatchItemError{},
		},
	}
	router := newTestRouter(svc)

	// An empty list is a well-formed batch and folds to an empty summary.
	rec := doRequest(t, router, http.MethodPut, `{"participationIds":[]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected the empty batch to reach the service, got %d calls", svc.calls)
	}
	var resp transport.BatchConvertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary.Total != 0 || resp.Summary.Success != 0 || resp.Summary.Errors != 0 {
		t.Fatalf("expected empty summary, got %+v", resp.Summary)
	}
}

func TestCreateLeadBatch_SuccessReturns200WithSummary(t *testing.T) {
	participationID := uuid.New()
	svc := &fakeService{
		batchResp: transport.BatchConvertResponse{
			Message: "batch lead conversion completed",
			Summary: transport.BatchSummary{Total: 2, Success: 1, Errors: 1},
			Results: []transport.BatchItemResult{
				{ParticipationID: participationID, LeadID: uuid.New(), Status: "success"},
			},
			Errors: []transport.BatchItemError{
				{ParticipationID: uuid.New(), Error: "participation not found"},
			},
		},
	}
	router := newTestRouter(svc)

	body := fmt.Sprintf(`{"participationIds":[%q,%q]}`, participationID, uuid.New())
	rec := doRequest(t, router, http.MethodPut, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp transport.BatchConvertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary.Total != 2 || resp.Summary.Success != 1 || resp.Summary.Errors != 1 {
		t.Fatalf("unexpected summary %+v", resp.Summary)
	}
}
