// Package api exposes the resource surface of the gateway: one collection of
// routes per entity kind.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/services/gateway/internal/backend"
)

const maxBodyBytes = 1 << 20

// Handler coordinates HTTP requests with the backend.
type Handler struct {
	backend *backend.Backend
	logger  logrus.FieldLogger
}

// NewHandler builds a Handler.
func NewHandler(b *backend.Backend, logger logrus.FieldLogger) *Handler {
	return &Handler{backend: b, logger: logger}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	registerResource(r, h.backend.Accounts, h.logger)
	registerResource(r, h.backend.Workouts, h.logger)
	registerResource(r, h.backend.Exercises, h.logger)
	registerResource(r, h.backend.Diets, h.logger)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	})
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type resource[T entity.Record[T], C entity.Input[T], P entity.Patch[T]] struct {
	collection *backend.Collection[T, C, P]
	logger     logrus.FieldLogger
}

func registerResource[T entity.Record[T], C entity.Input[T], P entity.Patch[T]](r *mux.Router, c *backend.Collection[T, C, P], logger logrus.FieldLogger) {
	res := &resource[T, C, P]{collection: c, logger: logger.WithField("entity", string(c.Kind()))}
	base := "/" + string(c.Kind())

	r.HandleFunc(base, res.create).Methods(http.MethodPost)
	r.HandleFunc(base, res.list).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id}", res.get).Methods(http.MethodGet)
	r.HandleFunc(base+"/{id}", res.update).Methods(http.MethodPut)
	r.HandleFunc(base+"/{id}", res.remove).Methods(http.MethodDelete)
}

func (res *resource[T, C, P]) create(w http.ResponseWriter, r *http.Request) {
	var input C
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := res.collection.Create(r.Context(), input)
	if err != nil {
		res.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (res *resource[T, C, P]) get(w http.ResponseWriter, r *http.Request) {
	record, err := res.collection.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		res.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (res *resource[T, C, P]) update(w http.ResponseWriter, r *http.Request) {
	var patch P
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := res.collection.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		res.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (res *resource[T, C, P]) remove(w http.ResponseWriter, r *http.Request) {
	deleted, err := res.collection.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		res.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (res *resource[T, C, P]) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	page, err := res.collection.List(r.Context(), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		res.writeFailure(w, err)
		return
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	writeJSON(w, http.StatusOK, page)
}

func (res *resource[T, C, P]) writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		res.logger.WithError(err).Error("domain call failed")
	}
	writeError(w, status, code, err.Error())
}

// statusFor maps the error taxonomy to an HTTP status and problem type.
func statusFor(err error) (int, string) {
	switch {
	case apperr.IsParentNotFound(err):
		return http.StatusNotFound, "parent_not_found"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

// decodeBody reads exactly one JSON object and rejects unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("unable to parse body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unable to parse body: trailing data")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
