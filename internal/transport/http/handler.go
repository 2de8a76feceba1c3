package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suleigolden/sulber-core/internal/catalog"
	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/jobapi"
	"github.com/suleigolden/sulber-core/internal/service"
)

type Handler struct {
	query    *service.JobQueryService
	actions  *service.JobActionService
	jobs     jobapi.Service
	profiles jobapi.ProfileService
}

func NewHandler(query *service.JobQueryService, actions *service.JobActionService, jobs jobapi.Service, profiles jobapi.ProfileService) *Handler {
	return &Handler{query: query, actions: actions, jobs: jobs, profiles: profiles}
}

type createJobDTO struct {
	ServiceType     entity.ServiceType `json:"serviceType"`
	Address         entity.Address     `json:"address"`
	ScheduledStart  time.Time          `json:"scheduledStart"`
	ScheduledEnd    time.Time          `json:"scheduledEnd"`
	TotalPriceCents int64              `json:"totalPriceCents"`
	Currency        string             `json:"currency"`
	Notes           string             `json:"notes"`
}

// CreateJob godoc
// @Summary Create a service request
// @Description Files a new PENDING job owned by the authenticated customer.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body createJobDTO true "job payload"
// @Success 201 {object} entity.Job
// @Failure 400 {object} apiError
// @Failure 403 {object} apiError
// @Router /jobs [post]
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	var dto createJobDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if dto.ServiceType == "" {
		writeErr(w, http.StatusBadRequest, "serviceType is required")
		return
	}

	// unpriced requests fall back to the catalog price
	if dto.TotalPriceCents == 0 {
		if e, ok := catalog.Lookup(dto.ServiceType); ok {
			dto.TotalPriceCents = e.PriceCents
			if dto.Currency == "" {
				dto.Currency = e.Currency
			}
		}
	}

	job, err := h.actions.Create(r.Context(), entity.Customer{ID: actor.ID}, jobapi.CreateJobParams{
		ServiceType:     dto.ServiceType,
		Address:         dto.Address,
		ScheduledStart:  dto.ScheduledStart,
		ScheduledEnd:    dto.ScheduledEnd,
		TotalPriceCents: dto.TotalPriceCents,
		Currency:        dto.Currency,
		Notes:           dto.Notes,
	})
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

// ListJobs godoc
// @Summary List the caller's jobs
// @Description Role-aware list: customers get their requests, providers their assignments. Newest first. Optional view=active|completed filter.
// @Tags jobs
// @Produce json
// @Param view query string false "active or completed"
// @Success 200 {array} entity.Job
// @Failure 401 {object} apiError
// @Router /jobs [get]
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	jobs, err := h.query.JobsForRole(r.Context(), actor.ID, actor.Role)
	if err != nil {
		writeServiceErr(w, err)
		return
	}

	switch r.URL.Query().Get("view") {
	case "active":
		jobs = service.ActiveJobs(jobs)
	case "completed":
		jobs = service.CompletedJobs(jobs)
	}

	writeJSON(w, http.StatusOK, service.SortedByNewest(jobs))
}

// AvailableJobs godoc
// @Summary List jobs available to the provider
// @Description PENDING, unassigned jobs inside the provider's declared service area. Empty when no address is on file.
// @Tags jobs
// @Produce json
// @Success 200 {array} entity.Job
// @Failure 403 {object} apiError
// @Router /jobs/available [get]
func (h *Handler) AvailableJobs(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())

	profile, err := h.profiles.Profile(r.Context(), actor.ID)
	if err != nil {
		writeServiceErr(w, err)
		return
	}

	jobs, err := h.query.AvailableJobs(r.Context(), actor.ID, profile.Address)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetJob godoc
// @Summary Get job by id
// @Tags jobs
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Router /jobs/{id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) loadJob(w http.ResponseWriter, r *http.Request) (*entity.Job, bool) {
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceErr(w, err)
		return nil, false
	}
	return job, true
}

func (h *Handler) provider(w http.ResponseWriter, r *http.Request) (entity.Provider, bool) {
	actor, _ := ActorFromContext(r.Context())
	profile, err := h.profiles.Profile(r.Context(), actor.ID)
	if err != nil {
		writeServiceErr(w, err)
		return entity.Provider{}, false
	}
	p := entity.Provider{ID: actor.ID}
	if profile.Address != nil {
		p.Address = *profile.Address
	}
	return p, true
}

// AcceptJob godoc
// @Summary Accept a pending job
// @Tags jobs
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Failure 409 {object} apiError
// @Router /jobs/{id}/accept [post]
func (h *Handler) AcceptJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	p, ok := h.provider(w, r)
	if !ok {
		return
	}
	updated, err := h.actions.Accept(r.Context(), p, job)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// StartJob godoc
// @Summary Start an accepted job
// @Tags jobs
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Failure 409 {object} apiError
// @Router /jobs/{id}/start [post]
func (h *Handler) StartJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	actor, _ := ActorFromContext(r.Context())
	updated, err := h.actions.Start(r.Context(), entity.Provider{ID: actor.ID}, job)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CompleteJob godoc
// @Summary Complete an in-progress job
// @Tags jobs
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Failure 409 {object} apiError
// @Router /jobs/{id}/complete [post]
func (h *Handler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	actor, _ := ActorFromContext(r.Context())
	updated, err := h.actions.Complete(r.Context(), entity.Provider{ID: actor.ID}, job)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// CancelJob godoc
// @Summary Cancel an own pending or accepted job
// @Tags jobs
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} entity.Job
// @Failure 404 {object} apiError
// @Failure 409 {object} apiError
// @Router /jobs/{id}/cancel [post]
func (h *Handler) CancelJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	actor, _ := ActorFromContext(r.Context())
	updated, err := h.actions.Cancel(r.Context(), entity.Customer{ID: actor.ID}, job)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ListCatalog godoc
// @Summary List the service catalog
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Entry
// @Router /catalog [get]
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.All())
}

// GetCatalogEntry godoc
// @Summary Get catalog entry by service type
// @Description Unknown types degrade to a bare entry titled with the raw code.
// @Tags catalog
// @Produce json
// @Param type path string true "service type code"
// @Success 200 {object} catalog.Entry
// @Router /catalog/{type} [get]
func (h *Handler) GetCatalogEntry(w http.ResponseWriter, r *http.Request) {
	t := entity.ServiceType(chi.URLParam(r, "type"))
	entry, ok := catalog.Lookup(t)
	if !ok {
		entry = catalog.Entry{Type: t, Title: catalog.DisplayTitle(t)}
	}
	writeJSON(w, http.StatusOK, entry)
}
