package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/config"
	"github.com/randy-rebucas/localpro-backend/internal/core"
	"github.com/randy-rebucas/localpro-backend/internal/models"
	"github.com/randy-rebucas/localpro-backend/internal/realtime"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	switch idToken {
	case "client-token":
		return &auth.Token{UID: "client-1", Claims: map[string]interface{}{"name": "Maria"}}, nil
	case "admin-token":
		return &auth.Token{UID: "admin-1", Claims: map[string]interface{}{"role": "admin"}}, nil
	}
	return nil, errors.New("invalid token")
}

// stubJobService implements the read paths used by the handler tests. Unused methods panic.
type stubJobService struct {
	core.JobService
	jobs    map[string]*models.Job
	called  string
	listErr error
}

func (s *stubJobService) GetJobByID(_ context.Context, jobID string) (*models.Job, error) {
	s.called = "GetJobByID"
	if job, ok := s.jobs[jobID]; ok {
		return job, nil
	}
	return nil, fmt.Errorf("lookup %q: %w", jobID, core.ErrJobNotFound)
}

func (s *stubJobService) GetOpenJobs(context.Context) ([]*models.Job, error) {
	s.called = "GetOpenJobs"
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []*models.Job{}, nil
}

func (s *stubJobService) GetJobsByCategory(context.Context, string) ([]*models.Job, error) {
	s.called = "GetJobsByCategory"
	return []*models.Job{}, nil
}

func (s *stubJobService) SearchJobs(_ context.Context, term string) ([]*models.Job, error) {
	s.called = "SearchJobs"
	if strings.TrimSpace(term) == "" {
		return nil, &core.ValidationError{Field: "searchTerm", Message: "searchTerm is required"}
	}
	return []*models.Job{}, nil
}

type stubAdminJobService struct {
	core.AdminJobService
	deleted []string
}

func (s *stubAdminJobService) DeleteJob(_ context.Context, actor models.Actor, jobID string) error {
	s.deleted = append(s.deleted, actor.ID+":"+jobID)
	return nil
}

type stubCartService struct {
	core.CartService
	failWith error
}

func (s *stubCartService) GetCart(_ context.Context, userID string) (*core.CartView, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ID: "i1", ProductID: "p1", Price: 2.5, Quantity: 2}}}
	return &core.CartView{Cart: cart, Totals: core.CartTotals(cart)}, nil
}

type testEnv struct {
	router *gin.Engine
	jobs   *stubJobService
	admin  *stubAdminJobService
	cart   *stubCartService
	hub    *realtime.Hub
}

func newTestEnv(t *testing.T, withCart bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		router: gin.New(),
		jobs:   &stubJobService{jobs: map[string]*models.Job{"job-1": {ID: "job-1", Title: "Fix sink", Status: models.JobStatusOpen}}},
		admin:  &stubAdminJobService{},
		hub:    realtime.NewHub(nil, zap.NewNop()),
	}
	services := Services{Job: env.jobs, AdminJob: env.admin, Feed: env.hub}
	if withCart {
		env.cart = &stubCartService{}
		services.Cart = env.cart
	}
	SetupRoutes(env.router, &config.Config{ClientURL: "http://localhost:3000"}, zap.NewNop(), stubVerifier{}, services)
	return env
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestGetJobNotFound(t *testing.T) {
	env := newTestEnv(t, false)
	w := env.do(http.MethodGet, "/api/v1/jobs/missing", "client-token", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false || body["error"] != "Job not found" || body["message"] != "Failed to fetch job." {
		t.Errorf("body = %v", body)
	}
}

func TestGetJob(t *testing.T) {
	env := newTestEnv(t, false)
	w := env.do(http.MethodGet, "/api/v1/jobs/job-1", "client-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decode(t, w)
	data, _ := body["data"].(map[string]interface{})
	if body["success"] != true || data["id"] != "job-1" {
		t.Errorf("body = %v", body)
	}
}

func TestStoreFailureEnvelope(t *testing.T) {
	env := newTestEnv(t, false)
	env.jobs.listErr = fmt.Errorf("failed to iterate jobs (status Open): %w", errors.New("rpc error: code = Unavailable"))

	w := env.do(http.MethodGet, "/api/v1/jobs", "client-token", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decode(t, w)
	if body["success"] != false || body["error"] != internalErrorMessage || body["message"] != "Failed to fetch jobs." {
		t.Errorf("body = %v", body)
	}
	if strings.Contains(w.Body.String(), "Unavailable") {
		t.Errorf("store error leaked: %s", w.Body.String())
	}
}

func TestListJobsDispatch(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "GetOpenJobs"},
		{"?category=Plumbing", "GetJobsByCategory"},
		{"?q=sink", "SearchJobs"},
	}
	for _, tc := range tests {
		env := newTestEnv(t, false)
		w := env.do(http.MethodGet, "/api/v1/jobs"+tc.query, "client-token", nil)
		if w.Code != http.StatusOK {
			t.Errorf("%q: status = %d", tc.query, w.Code)
		}
		if env.jobs.called != tc.want {
			t.Errorf("%q: called %s, want %s", tc.query, env.jobs.called, tc.want)
		}
	}
}

func TestEmptySearchIsBadRequest(t *testing.T) {
	env := newTestEnv(t, false)
	w := env.do(http.MethodGet, "/api/v1/jobs?q=", "client-token", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decode(t, w); body["error"] != "searchTerm is required" {
		t.Errorf("body = %v", body)
	}
}

func TestUnauthenticated(t *testing.T) {
	env := newTestEnv(t, true)
	for _, path := range []string{"/api/v1/jobs", "/api/marketplace/cart"} {
		if w := env.do(http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, w.Code)
		}
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t, false)
	if w := env.do(http.MethodDelete, "/api/v1/admin/jobs/job-1", "client-token", nil); w.Code != http.StatusForbidden {
		t.Fatalf("client status = %d, want 403", w.Code)
	}
	if len(env.admin.deleted) != 0 {
		t.Fatal("delete reached the service for a non-admin")
	}
	if w := env.do(http.MethodDelete, "/api/v1/admin/jobs/job-1", "admin-token", nil); w.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", w.Code)
	}
	if len(env.admin.deleted) != 1 || env.admin.deleted[0] != "admin-1:job-1" {
		t.Errorf("deleted = %v", env.admin.deleted)
	}
}

func TestMalformedBody(t *testing.T) {
	env := newTestEnv(t, false)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/jobs/job-1/status", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer admin-token")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCart(t *testing.T) {
	env := newTestEnv(t, true)
	w := env.do(http.MethodGet, "/api/marketplace/cart", "client-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decode(t, w)
	data, _ := body["data"].(map[string]interface{})
	totals, _ := data["totals"].(map[string]interface{})
	if body["success"] != true || totals["itemCount"] != float64(2) || totals["subtotal"] != float64(5) {
		t.Errorf("body = %v", body)
	}

	env.cart.failWith = errors.New("redis: connection refused")
	w = env.do(http.MethodGet, "/api/marketplace/cart", "client-token", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decode(t, w); body["error"] != internalErrorMessage || body["message"] != "Failed to fetch cart." {
		t.Errorf("body = %v", body)
	}
}

func TestCartUnavailable(t *testing.T) {
	env := newTestEnv(t, false)
	if w := env.do(http.MethodGet, "/api/marketplace/cart", "client-token", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)
	if w := env.do(http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&core.ValidationError{Field: "jobId", Message: "jobId is required"}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", core.ErrBookingNotFound), http.StatusNotFound},
		{core.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("award: %w", core.ErrJobNotOpen), http.StatusConflict},
		{core.ErrPaymentAlreadyResolved, http.StatusConflict},
		{errors.New("deadline exceeded"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got, _ := errorStatus(tc.err); got != tc.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestStreamOpenJobs(t *testing.T) {
	env := newTestEnv(t, false)
	env.hub.Publish([]*models.Job{{ID: "job-1", Status: models.JobStatusOpen}})

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/jobs/stream?token=client-token"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v (resp %v)", err, resp)
	}
	defer conn.Close()

	var event struct {
		Type string        `json:"type"`
		Data []*models.Job `json:"data"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if event.Type != EventJobsSnapshot || len(event.Data) != 1 || event.Data[0].ID != "job-1" {
		t.Fatalf("event = %+v", event)
	}

	env.hub.Publish([]*models.Job{})
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if len(event.Data) != 0 {
		t.Errorf("update = %+v, want empty snapshot", event)
	}
}
