package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/events"
	"example.com/fitness/services/gateway/internal/backend/backendtest"
)

type harness struct {
	router   *mux.Router
	fakes    *backendtest.Fitness
	recorder *backendtest.Recorder
	notifier *events.Notifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard

	h := &harness{
		router:   mux.NewRouter(),
		fakes:    backendtest.NewFitness(),
		recorder: &backendtest.Recorder{},
	}
	h.notifier = events.NewNotifier(h.recorder)
	NewHandler(h.fakes.Backend(h.notifier), logger).RegisterRoutes(h.router)
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

// messages waits for in-flight publishes and returns what was published.
func (h *harness) messages(t *testing.T) []string {
	t.Helper()
	require.NoError(t, h.notifier.Close())
	return h.recorder.Messages()
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func problem(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	return decode[map[string]string](t, rr)
}

func TestCreateWorkoutFlow(t *testing.T) {
	h := newHarness(t)

	rr := h.do(http.MethodPost, "/account", `{"name":"Ann","email":"ann@x.io","age":30}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	ann := decode[entity.Account](t, rr)
	require.NotEmpty(t, ann.ID)

	rr = h.do(http.MethodPost, "/workout", `{"title":"Run","ownerAccountId":"`+ann.ID+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	run := decode[entity.Workout](t, rr)
	require.Equal(t, ann.ID, run.OwnerAccountID)

	rr = h.do(http.MethodPost, "/workout", `{"title":"Run","ownerAccountId":"ZZZ"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, map[string]string{
		"type":   "parent_not_found",
		"detail": "referenced account ZZZ not found",
	}, problem(t, rr))

	rr = h.do(http.MethodGet, "/workout/"+run.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, run, decode[entity.Workout](t, rr))

	require.ElementsMatch(t, []string{"Account created: Ann", "Workout created: Run"}, h.messages(t))
}

func TestUpdateAndDelete(t *testing.T) {
	h := newHarness(t)

	rr := h.do(http.MethodPost, "/account", `{"name":"Ann","email":"ann@x.io","age":30}`)
	ann := decode[entity.Account](t, rr)

	rr = h.do(http.MethodPut, "/account/"+ann.ID, `{"age":31}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[entity.Account](t, rr)
	require.Equal(t, 31, updated.Age)
	require.Equal(t, "Ann", updated.Name)

	rr = h.do(http.MethodPut, "/account/missing", `{"age":31}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "not_found", problem(t, rr)["type"])

	rr = h.do(http.MethodDelete, "/account/"+ann.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, updated, decode[entity.Account](t, rr))

	rr = h.do(http.MethodDelete, "/account/"+ann.ID, "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	require.ElementsMatch(t, []string{
		"Account created: Ann",
		"Account updated: Ann",
		"Account deleted: Ann",
	}, h.messages(t))
}

func TestRequestContractsAreEnforced(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		kind   string
	}{
		{"unknown field", http.MethodPost, "/account", `{"name":"Ann","email":"ann@x.io","age":30,"admin":true}`, http.StatusBadRequest, "invalid_request"},
		{"malformed json", http.MethodPost, "/diet", `{"title":`, http.StatusBadRequest, "invalid_request"},
		{"trailing data", http.MethodPost, "/diet", `{"title":"Keto","ownerAccountId":"A1"} {}`, http.StatusBadRequest, "invalid_request"},
		{"wrong type", http.MethodPost, "/account", `{"name":"Ann","email":"ann@x.io","age":"old"}`, http.StatusBadRequest, "invalid_request"},
		{"missing title", http.MethodPost, "/workout", `{"ownerAccountId":"A1"}`, http.StatusBadRequest, "validation_failed"},
		{"bad email", http.MethodPost, "/account", `{"name":"Ann","email":"nope","age":30}`, http.StatusBadRequest, "validation_failed"},
		{"age range", http.MethodPost, "/account", `{"name":"Ann","email":"ann@x.io","age":0}`, http.StatusBadRequest, "validation_failed"},
		{"blank patch", http.MethodPut, "/exercise/E1", `{"name":"  "}`, http.StatusBadRequest, "validation_failed"},
		{"bad limit", http.MethodGet, "/exercise?limit=-2", "", http.StatusBadRequest, "validation_failed"},
		{"bad cursor", http.MethodGet, "/exercise?cursor=***", "", http.StatusBadRequest, "validation_failed"},
		{"unknown entity", http.MethodGet, "/meal/1", "", http.StatusNotFound, "not_found"},
		{"method", http.MethodPatch, "/account/A1", `{}`, http.StatusMethodNotAllowed, "method_not_allowed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := h.do(tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())
			require.Equal(t, tc.kind, problem(t, rr)["type"])
		})
	}

	require.Zero(t, h.fakes.Accounts.Calls())
	require.Zero(t, h.fakes.Workouts.Calls())
	require.Zero(t, h.fakes.Diets.Calls())
	require.Empty(t, h.messages(t))
}

func TestDuplicateEmailIsValidationFailure(t *testing.T) {
	h := newHarness(t)

	rr := h.do(http.MethodPost, "/account", `{"name":"Ann","email":"ann@x.io","age":30}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = h.do(http.MethodPost, "/account", `{"name":"Ann","email":"ANN@x.io","age":30}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "validation_failed", problem(t, rr)["type"])
}

func TestBackendFailureIsServerError(t *testing.T) {
	h := newHarness(t)
	h.fakes.Diets.Fail = apperr.Internal(errors.New("connection refused"))

	rr := h.do(http.MethodGet, "/diet/D1", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, map[string]string{"type": "server_error", "detail": "connection refused"}, problem(t, rr))

	rr = h.do(http.MethodPost, "/diet", `{"title":"Keto","ownerAccountId":"A1"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Empty(t, h.messages(t))
}

func TestListPagination(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"Run", "Swim", "Ride"} {
		rr := h.do(http.MethodPost, "/workout", `{"title":"`+name+`","ownerAccountId":"x"}`)
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	rr := h.do(http.MethodPost, "/account", `{"name":"Ann","email":"ann@x.io","age":30}`)
	ann := decode[entity.Account](t, rr)
	for _, title := range []string{"A", "B", "C"} {
		rr := h.do(http.MethodPost, "/diet", `{"title":"`+title+`","ownerAccountId":"`+ann.ID+`"}`)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr = h.do(http.MethodGet, "/diet?limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[entity.Page[entity.Diet]](t, rr)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	rr = h.do(http.MethodGet, "/diet?limit=2&cursor="+first.NextCursor, "")
	second := decode[entity.Page[entity.Diet]](t, rr)
	require.Len(t, second.Items, 1)
	require.Empty(t, second.NextCursor)

	rr = h.do(http.MethodGet, "/workout", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"items":[]}`, rr.Body.String())
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rr := h.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}
