package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/daap14/billing/internal/api/middleware"
	"github.com/daap14/billing/internal/auth"
	"github.com/daap14/billing/internal/plan"
)

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func makeAuthRequest(method, path string, body []byte, params map[string]string, identity *auth.Identity) (*http.Request, *httptest.ResponseRecorder) {
	req, w := makeChiRequest(method, path, body, params)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]interface{}) string {
	t.Helper()
	apiErr, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "expected an error object")
	return apiErr["code"].(string)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// --- Plan repositories ---

type memPlanRepo struct {
	mu     sync.Mutex
	nextID int64
	plans  map[int64]plan.Plan
}

func newMemPlanRepo(seed ...plan.Plan) *memPlanRepo {
	r := &memPlanRepo{nextID: 1, plans: map[int64]plan.Plan{}}
	for _, p := range seed {
		r.plans[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *memPlanRepo) Create(_ context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	r.plans[p.ID] = *p
	return nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id int64) (*plan.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, plan.ErrPlanNotFound
	}
	return &p, nil
}

func (r *memPlanRepo) List(_ context.Context) ([]plan.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]plan.Plan, 0, len(r.plans))
	for _, p := range r.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPlanRepo) Update(_ context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.ID]; !ok {
		return plan.ErrPlanNotFound
	}
	r.plans[p.ID] = *p
	return nil
}

// failingPlanRepo simulates an unreachable record store.
type failingPlanRepo struct{ err error }

func (r *failingPlanRepo) Create(_ context.Context, _ *plan.Plan) error { return r.err }
func (r *failingPlanRepo) GetByID(_ context.Context, _ int64) (*plan.Plan, error) {
	return nil, r.err
}
func (r *failingPlanRepo) List(_ context.Context) ([]plan.Plan, error) { return nil, r.err }
func (r *failingPlanRepo) Update(_ context.Context, _ *plan.Plan) error { return r.err }
