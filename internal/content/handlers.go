package content

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/InkwellLabs/Inkwell-Backend/internal/envelope"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Controller serves one resource type's CRUD endpoints.
type Controller struct {
	d Descriptor
}

func NewController(d Descriptor) *Controller {
	return &Controller{d: d}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "pageSize", defaultPageSize),
		Filters:  map[string]any{},
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > maxPageSize {
		params.PageSize = defaultPageSize
	}
	for _, col := range c.d.Filterable {
		if v := r.URL.Query().Get(col); v != "" {
			params.Filters[col] = v
		}
	}

	rows, total, err := listRows(r.Context(), c.d, params)
	if err != nil {
		c.fail(w, r, "list", err)
		return
	}
	envelope.Paginated(w, rows, params.Page, params.PageSize, total, nil)
}

// Get looks a record up by id or slug: numeric input tries the id first and
// falls back to slug, anything else is a slug.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "idOrSlug")

	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		row, err := getRowBy(r.Context(), c.d, "id", id)
		if err == nil {
			envelope.Resource(w, http.StatusOK, row)
			return
		}
		if !errors.Is(err, apierr.ErrNotFound) {
			c.fail(w, r, "get", err)
			return
		}
	}

	row, err := getRowBy(r.Context(), c.d, "slug", key)
	if err != nil {
		c.fail(w, r, "get", err)
		return
	}
	envelope.Resource(w, http.StatusOK, row)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		envelope.Error(w, apierr.ErrValidationFailed.WithMessage("Invalid request body"))
		return
	}

	attrs, err := sanitizeAttrs(c.d, input, true)
	if err != nil {
		envelope.Error(w, err)
		return
	}

	row, err := createRow(r.Context(), c.d, attrs)
	if err != nil {
		c.fail(w, r, "create", err)
		return
	}
	envelope.Resource(w, http.StatusCreated, row)
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "idOrSlug"), 10, 64)
	if err != nil {
		envelope.Error(w, apierr.ErrNotFound)
		return
	}

	var input map[string]any
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		envelope.Error(w, apierr.ErrValidationFailed.WithMessage("Invalid request body"))
		return
	}

	attrs, err := sanitizeAttrs(c.d, input, false)
	if err != nil {
		envelope.Error(w, err)
		return
	}

	row, err := updateRow(r.Context(), c.d, id, attrs)
	if err != nil {
		c.fail(w, r, "update", err)
		return
	}
	envelope.Resource(w, http.StatusOK, row)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "idOrSlug"), 10, 64)
	if err != nil {
		envelope.Error(w, apierr.ErrNotFound)
		return
	}

	if err := deleteRow(r.Context(), c.d, id); err != nil {
		c.fail(w, r, "delete", err)
		return
	}
	envelope.Success(w, http.StatusOK, envelope.Row{}, nil)
}

// fail logs store-level failures with enough context to diagnose and writes
// the mapped client error. Client bodies never carry raw SQL errors.
func (c *Controller) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	apiErr := apierr.AsAPIError(err)
	if apiErr.Status >= 500 {
		log.Error().
			Err(err).
			Str("resource", c.d.Path).
			Str("op", op).
			Msg("store operation failed")
	}
	envelope.Error(w, err)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
