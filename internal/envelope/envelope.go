// Package envelope shapes API responses. Every successful body has a
// top-level "data" key holding {id, attributes} resources; every error body
// has "error": true. Admin and API clients rely on this contract.
package envelope

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
)

// Row is a flat record as it comes out of the store.
type Row = map[string]any

// Meta is free-form response metadata (pagination, tokens).
type Meta = map[string]any

// ToResource shapes a flat row into {id, attributes}. Rows already in that
// shape pass through unchanged, so the call is idempotent.
func ToResource(row Row) Row {
	if row == nil {
		return nil
	}
	id, ok := row["id"]
	if !ok {
		return row
	}
	if _, shaped := row["attributes"]; shaped {
		return row
	}
	attrs := make(Row, len(row)-1)
	for k, v := range row {
		if k == "id" {
			continue
		}
		attrs[k] = v
	}
	return Row{"id": id, "attributes": attrs}
}

// ToResourceList maps ToResource over rows. Rows without an id pass through
// unmodified rather than erroring.
func ToResourceList(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToResource(row))
	}
	return out
}

// TotalPages computes ceil(total/pageSize); 0 when pageSize is 0.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

type successBody struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta,omitempty"`
}

type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Success writes {data, meta} with the given status. data is written as-is;
// callers shape rows via ToResource/ToResourceList first.
func Success(w http.ResponseWriter, status int, data any, meta Meta) {
	writeJSON(w, status, successBody{Data: data, Meta: meta})
}

// Resource writes a single shaped row as {data: resource}.
func Resource(w http.ResponseWriter, status int, row Row) {
	Success(w, status, ToResource(row), nil)
}

// Paginated writes a list response with pagination metadata.
func Paginated(w http.ResponseWriter, rows []Row, page, pageSize int, total int64, extra Meta) {
	meta := Meta{
		"page":       page,
		"pageSize":   pageSize,
		"total":      total,
		"totalPages": TotalPages(total, pageSize),
	}
	for k, v := range extra {
		meta[k] = v
	}
	Success(w, http.StatusOK, ToResourceList(rows), meta)
}

// Error writes {error:true, message, code} with the status from the error
// taxonomy. Unrecognized errors become a generic 500.
func Error(w http.ResponseWriter, err error) {
	apiErr := apierr.AsAPIError(err)
	writeJSON(w, apiErr.Status, errorBody{
		Error:   true,
		Message: apiErr.Message,
		Code:    apiErr.Code,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, `{"error":true,"message":"Failed to encode response","code":"internal_error"}`, http.StatusInternalServerError)
	}
}
