package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitelist/internal/contractor/models"
	dErrors "whitelist/pkg/domain-errors"
)

type fakeService struct {
	lookupResult *models.Contractor
	lookupErr    error
	saveErr      error
	listResult   []*models.Contractor
	listErr      error

	gotTaxID    string
	gotSaved    *models.Contractor
	gotPage     uint
	gotPageSize uint
	gotFilter   string
}

func (f *fakeService) LookupContractor(_ context.Context, taxID string) (*models.Contractor, error) {
	f.gotTaxID = taxID
	return f.lookupResult, f.lookupErr
}

func (f *fakeService) SaveContractor(_ context.Context, c *models.Contractor) error {
	f.gotSaved = c
	if f.saveErr == nil {
		c.ID = 1
	}
	return f.saveErr
}

func (f *fakeService) ListContractors(_ context.Context, page, pageSize uint, filter string) ([]*models.Contractor, error) {
	f.gotPage = page
	f.gotPageSize = pageSize
	f.gotFilter = filter
	return f.listResult, f.listErr
}

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	New(svc, slog.Default()).Register(r)
	return r
}

func TestHandleLookupContractor_OK(t *testing.T) {
	svc := &fakeService{
		lookupResult: &models.Contractor{
			Name:      "ABC Company",
			TaxID:     "5260250274",
			VATStatus: "Czynny",
			Accounts:  []string{"61109010140000071219812874"},
		},
	}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/contractors/5260250274", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "5260250274", svc.gotTaxID)

	var resp ContractorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ABC Company", resp.Name)
	assert.Equal(t, []string{"61109010140000071219812874"}, resp.Accounts)
}

func TestHandleLookupContractor_NotFoundVsUnavailable(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"not found", dErrors.New(dErrors.CodeNotFound, "no contractor registered for this tax id"), http.StatusNotFound, "not_found"},
		{"registry down", dErrors.New(dErrors.CodeUnavailable, "registry lookup failed"), http.StatusBadGateway, "unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&fakeService{lookupErr: tc.err})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/registry/contractors/9999999999", nil))

			require.Equal(t, tc.wantStatus, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantError, resp["error"])
		})
	}
}

func TestHandleSaveContractor_Created(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	body := `{
		"name": "ABC Company",
		"tax_id": "5260250274",
		"vat_status": "Czynny",
		"accounts": ["61109010140000071219812874", "83101010230000261395100000"]
	}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contractors", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.gotSaved)
	assert.Equal(t, "5260250274", svc.gotSaved.TaxID)
	assert.Len(t, svc.gotSaved.Accounts, 2)

	var resp ContractorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestHandleSaveContractor_MissingAccountsBecomesEmptyList(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contractors",
		bytes.NewBufferString(`{"name": "No Accounts", "tax_id": "1111111111", "vat_status": "Zwolniony"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.gotSaved)
	assert.NotNil(t, svc.gotSaved.Accounts)
	assert.Empty(t, svc.gotSaved.Accounts)
}

func TestHandleSaveContractor_InvalidBody(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contractors", bytes.NewBufferString(`{not json`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSaveContractor_Conflict(t *testing.T) {
	svc := &fakeService{saveErr: dErrors.New(dErrors.CodeConflict, "contractor with this tax id already exists")}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contractors",
		bytes.NewBufferString(`{"name": "ABC Company", "tax_id": "5260250274", "vat_status": "Czynny"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleListContractors_ParsesQueryParams(t *testing.T) {
	svc := &fakeService{listResult: []*models.Contractor{
		{ID: 1, Name: "ABC Company", TaxID: "5260250274", Accounts: []string{"61109010140000071219812874"}},
		{ID: 2, Name: "XYZ Corporation", TaxID: "9999999999"},
	}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contractors?page=2&page_size=25&q=corp", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(2), svc.gotPage)
	assert.Equal(t, uint(25), svc.gotPageSize)
	assert.Equal(t, "corp", svc.gotFilter)

	var resp ContractorListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint(2), resp.Page)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Contractors, 2)
	assert.NotNil(t, resp.Contractors[1].Accounts, "zero accounts serializes as [], not null")
}

func TestHandleListContractors_DefaultsWhenParamsAbsent(t *testing.T) {
	svc := &fakeService{listResult: []*models.Contractor{}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contractors", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(1), svc.gotPage)
	assert.Equal(t, uint(0), svc.gotPageSize, "service owns the page size default")
}

func TestHandleListContractors_Failure(t *testing.T) {
	svc := &fakeService{listErr: dErrors.New(dErrors.CodeInternal, "failed to search contractors")}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contractors", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
