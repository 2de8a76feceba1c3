package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/suleigolden/sulber-core/internal/cache"
	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/jobapi"
	"github.com/suleigolden/sulber-core/internal/service"
	httptransport "github.com/suleigolden/sulber-core/internal/transport/http"
)

var testSecret = []byte("test-signing-key")

// ---- fakes ----

type fakeBackend struct {
	jobs     map[string]*entity.Job
	profiles map[string]*entity.UserProfile
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		jobs:     map[string]*entity.Job{},
		profiles: map[string]*entity.UserProfile{},
	}
}

func (f *fakeBackend) List(ctx context.Context, status entity.JobStatus) ([]entity.Job, error) {
	out := []entity.Job{}
	for _, j := range f.jobs {
		if status == "" || j.Status == status {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeBackend) Get(ctx context.Context, id string) (*entity.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, jobapi.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeBackend) Create(ctx context.Context, p jobapi.CreateJobParams) (*entity.Job, error) {
	j := &entity.Job{
		ID:              "job-created",
		ServiceType:     p.ServiceType,
		Status:          entity.StatusPending,
		Address:         p.Address,
		CustomerID:      p.CustomerID,
		TotalPriceCents: p.TotalPriceCents,
		Currency:        p.Currency,
		CreatedAt:       time.Now(),
	}
	f.jobs[j.ID] = j
	cp := *j
	return &cp, nil
}

func (f *fakeBackend) Update(ctx context.Context, id string, upd jobapi.JobUpdate) (*entity.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, jobapi.ErrNotFound
	}
	if upd.ProviderID != nil {
		if j.Status != entity.StatusPending || j.ProviderID != nil {
			return nil, jobapi.ErrConflict
		}
		pid := *upd.ProviderID
		j.ProviderID = &pid
		j.Status = entity.StatusAccepted
	} else if upd.Status != nil {
		j.Status = *upd.Status
	}
	cp := *j
	return &cp, nil
}

func (f *fakeBackend) FindByCustomerID(ctx context.Context, customerID string) ([]entity.Job, error) {
	out := []entity.Job{}
	for _, j := range f.jobs {
		if j.CustomerID == customerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeBackend) FindByProviderID(ctx context.Context, providerID string) ([]entity.Job, error) {
	out := []entity.Job{}
	for _, j := range f.jobs {
		if j.ProviderID != nil && *j.ProviderID == providerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeBackend) Profile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, jobapi.ErrNotFound
	}
	return p, nil
}

// ---- helpers ----

func newTestRouter(backend *fakeBackend) http.Handler {
	store := cache.NewMemory()
	query := service.NewJobQueryService(backend, store, 0, nil)
	actions := service.NewJobActionService(backend, store, nil)
	h := httptransport.NewHandler(query, actions, backend, backend)
	return httptransport.Routes(h, zap.NewNop(), testSecret)
}

func signToken(t *testing.T, id string, role entity.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func seedPendingJob(backend *fakeBackend, id string) {
	backend.jobs[id] = &entity.Job{
		ID:          id,
		ServiceType: entity.ServiceDrivewayCarWash,
		Status:      entity.StatusPending,
		Address:     entity.Address{Country: "Canada", State: "ON", City: "Toronto"},
		CustomerID:  "cust-1",
		CreatedAt:   time.Now(),
	}
}

func seedProviderProfile(backend *fakeBackend, id string) {
	backend.profiles[id] = &entity.UserProfile{
		UserID:  id,
		Role:    entity.RoleProvider,
		Address: &entity.Address{Country: "Canada", State: "ON"},
	}
}

// ---- tests ----

func TestHTTP_JobsRequireAuth(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doRequest(t, router, http.MethodGet, "/jobs", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_AvailableJobs_ProviderOnly(t *testing.T) {
	backend := newFakeBackend()
	seedPendingJob(backend, "job-a")
	seedProviderProfile(backend, "prov-1")
	router := newTestRouter(backend)

	rr := doRequest(t, router, http.MethodGet, "/jobs/available", signToken(t, "prov-1", entity.RoleProvider), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}

	var jobs []entity.Job
	if err := json.Unmarshal(rr.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("invalid json: %v, body=%s", err, rr.Body.String())
	}
	if len(jobs) != 1 || jobs[0].ID != "job-a" {
		t.Fatalf("expected job-a, got %#v", jobs)
	}

	// customers must not see the provider feed
	rr = doRequest(t, router, http.MethodGet, "/jobs/available", signToken(t, "cust-1", entity.RoleCustomer), "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rr.Code)
	}
}

func TestHTTP_AcceptJob(t *testing.T) {
	backend := newFakeBackend()
	seedPendingJob(backend, "job-a")
	seedProviderProfile(backend, "prov-1")
	router := newTestRouter(backend)

	rr := doRequest(t, router, http.MethodPost, "/jobs/job-a/accept", signToken(t, "prov-1", entity.RoleProvider), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}

	var job entity.Job
	if err := json.Unmarshal(rr.Body.Bytes(), &job); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if job.Status != entity.StatusAccepted || job.ProviderID == nil || *job.ProviderID != "prov-1" {
		t.Fatalf("expected accepted by prov-1, got %#v", job)
	}
}

func TestHTTP_AcceptAssignedJob_409(t *testing.T) {
	backend := newFakeBackend()
	seedPendingJob(backend, "job-a")
	other := "prov-2"
	backend.jobs["job-a"].Status = entity.StatusAccepted
	backend.jobs["job-a"].ProviderID = &other
	seedProviderProfile(backend, "prov-1")
	router := newTestRouter(backend)

	rr := doRequest(t, router, http.MethodPost, "/jobs/job-a/accept", signToken(t, "prov-1", entity.RoleProvider), "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_CreateJob_CatalogPriceFallback(t *testing.T) {
	backend := newFakeBackend()
	router := newTestRouter(backend)

	body := `{"serviceType":"SNOW_SHOVELING","address":{"country":"Canada","state":"ON","city":"Toronto"}}`
	rr := doRequest(t, router, http.MethodPost, "/jobs", signToken(t, "cust-1", entity.RoleCustomer), body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", rr.Code, rr.Body.String())
	}

	var job entity.Job
	if err := json.Unmarshal(rr.Body.Bytes(), &job); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if job.TotalPriceCents != 6000 || job.Currency != "CAD" {
		t.Fatalf("expected catalog price 6000 CAD, got %d %s", job.TotalPriceCents, job.Currency)
	}
	if job.CustomerID != "cust-1" {
		t.Fatalf("job must belong to the authenticated customer, got %s", job.CustomerID)
	}
}

func TestHTTP_CatalogFallbackForUnknownType(t *testing.T) {
	router := newTestRouter(newFakeBackend())

	rr := doRequest(t, router, http.MethodGet, "/catalog/WINDOW_WASHING", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var entry struct {
		Type  string `json:"type"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry.Title != "WINDOW_WASHING" {
		t.Fatalf("expected raw-code fallback title, got %q", entry.Title)
	}
}
