// Package chiserver exposes the listing search API over HTTP.
package chiserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/listdex/internal/domain"
	domcat "github.com/kailas-cloud/listdex/internal/domain/category"
	"github.com/kailas-cloud/listdex/internal/domain/geo"
	domlist "github.com/kailas-cloud/listdex/internal/domain/listing"
	healthuc "github.com/kailas-cloud/listdex/internal/usecase/health"
	listinguc "github.com/kailas-cloud/listdex/internal/usecase/listing"
	searchuc "github.com/kailas-cloud/listdex/internal/usecase/search"
)

// Searcher resolves a search request to ordered listing identifiers.
type Searcher interface {
	Search(ctx context.Context, p searchuc.Params) ([]uuid.UUID, error)
}

// Listings is the listing read/write surface.
type Listings interface {
	Create(ctx context.Context, d listinguc.Draft) (domlist.Listing, error)
	Edit(ctx context.Context, id, ownerID uuid.UUID, u listinguc.Update) (domlist.Listing, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (domlist.Listing, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domlist.Listing, error)
}

// Categories reads the category directory.
type Categories interface {
	Lookup(id string) (domcat.Category, error)
	All() []domcat.Category
}

// HealthChecker aggregates component readiness.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// PageSizes is the per-surface default page size policy.
type PageSizes struct {
	Search int
	Browse int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        Searcher
	listings      Listings
	categories    Categories
	health        HealthChecker
	pages         PageSizes
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	listings Listings,
	categories Categories,
	health HealthChecker,
	pages PageSizes,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:     search,
		listings:   listings,
		categories: categories,
		health:     health,
		pages:      pages,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound, codeListingNotFound),
		sentinelHandler(domain.ErrCategoryNotFound, http.StatusNotFound, codeCategoryNotFound),
		sentinelHandler(domain.ErrInvalidListing, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeListingNotFound),
	}
	return s
}

// Routes mounts all API routes on a fresh router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.handleFeed)
			r.Post("/", s.handleCreateItem)
			r.Get("/{id}", s.handleGetItem)
			r.Put("/{id}", s.handleUpdateItem)
			r.Delete("/{id}", s.handleDeleteItem)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleCategories)
			r.Get("/{id}/items", s.handleCategoryItems)
		})
	})
	return r
}

// handleSearch handles GET /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, ok := s.searchParams(w, r)
	if !ok {
		return
	}
	if params.Limit <= 0 {
		params.Limit = s.pages.Search
	}
	s.runSearch(w, r, params)
}

// handleFeed handles GET /v1/items: the recency feed, optionally filtered by
// category and ordered by proximity when the caller sends a location.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	params, ok := s.searchParams(w, r)
	if !ok {
		return
	}
	params.Query = nil
	if params.Limit <= 0 {
		params.Limit = s.pages.Browse
	}
	s.runSearch(w, r, params)
}

// handleCategoryItems handles GET /v1/categories/{id}/items.
func (s *Server) handleCategoryItems(w http.ResponseWriter, r *http.Request) {
	params, ok := s.searchParams(w, r)
	if !ok {
		return
	}
	params.Query = nil
	params.CategoryID = chi.URLParam(r, "id")
	if params.Limit <= 0 {
		params.Limit = s.pages.Browse
	}
	s.runSearch(w, r, params)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, params searchuc.Params) {
	ids, err := s.search.Search(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	listings, err := s.listings.GetMany(r.Context(), ids)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsToResponse(listings))
}

// searchParams parses the query string shared by the search and browse
// surfaces. A reported parse problem has already been written to w.
func (s *Server) searchParams(w http.ResponseWriter, r *http.Request) (searchuc.Params, bool) {
	q := r.URL.Query()
	params := searchuc.Params{CategoryID: q.Get("category")}

	if raw := q.Get("q"); raw != "" {
		params.Query = &raw
	}

	latRaw, lonRaw := q.Get("lat"), q.Get("lon")
	if (latRaw == "") != (lonRaw == "") {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"lat and lon must be sent together")
		return searchuc.Params{}, false
	}
	if latRaw != "" {
		lat, err := strconv.ParseFloat(latRaw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "lat must be a number")
			return searchuc.Params{}, false
		}
		lon, err := strconv.ParseFloat(lonRaw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "lon must be a number")
			return searchuc.Params{}, false
		}
		point, err := geo.New(lat, lon)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return searchuc.Params{}, false
		}
		params.Point = &point
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed,
				"limit must be a positive integer")
			return searchuc.Params{}, false
		}
		params.Limit = limit
	}

	return params, true
}

// handleGetItem handles GET /v1/items/{id}.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	l, err := s.listings.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(l))
}

// handleCreateItem handles POST /v1/items.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req itemPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	draft := listinguc.Draft{
		OwnerID:     owner,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
	}
	if req.Location != nil {
		point, err := geo.New(req.Location.Lat, req.Location.Lon)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		draft.Coordinate = &point
	}

	l, err := s.listings.Create(r.Context(), draft)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemToResponse(l))
}

// handleUpdateItem handles PUT /v1/items/{id}.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req itemPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	l, err := s.listings.Edit(r.Context(), id, owner, listinguc.Update{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(l))
}

// handleDeleteItem handles DELETE /v1/items/{id}.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := s.listings.Delete(r.Context(), id, owner); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCategories handles GET /v1/categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	all := s.categories.All()
	items := make([]categoryResponse, len(all))
	for i, c := range all {
		items[i] = categoryToResponse(c)
	}
	writeJSON(w, http.StatusOK, categoryListResponse{Items: items})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// itemID parses the {id} route parameter.
func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "item id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// callerID reads the authenticated user from the X-User-ID header placed by
// the auth gateway in front of this service.
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing X-User-ID header")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "X-User-ID must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidQueryHandler surfaces the validation reason to the caller.
func invalidQueryHandler(w http.ResponseWriter, err error, _ string) bool {
	var iq *domain.InvalidQueryError
	if !errors.As(err, &iq) {
		if !errors.Is(err, domain.ErrInvalidQuery) {
			return false
		}
		writeError(w, http.StatusBadRequest, codeQueryInvalid, domain.ErrInvalidQuery.Error())
		return true
	}
	writeError(w, http.StatusBadRequest, codeQueryInvalid, iq.Reason)
	return true
}

func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrListingNotFound,
		domain.ErrCategoryNotFound,
		domain.ErrInvalidListing,
		domain.ErrInvalidQuery,
		domain.ErrForbidden,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			// The whole chain is built in-process; it carries no
			// backend internals.
			return err.Error()
		}
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
