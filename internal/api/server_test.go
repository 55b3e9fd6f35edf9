package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/assignment"
	"github.com/zulandar/satchel/internal/models"
	"github.com/zulandar/satchel/internal/note"
	"github.com/zulandar/satchel/internal/store"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router      *gin.Engine
	assignments *assignment.Service
	notes       *note.Service
	dir         store.DataDir
}

func newTestEnv(t *testing.T, mutate ...func(*StartOpts)) *testEnv {
	t.Helper()
	dir := store.DataDir{Root: t.TempDir()}
	if _, err := dir.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	now := func() time.Time { return testNow }

	var aid, nid int
	as, err := assignment.NewService(assignment.ServiceOpts{
		Store: store.New[models.Assignment](dir.AssignmentsPath()),
		Now:   now,
		NewID: func() string { aid++; return fmt.Sprintf("a-%d", aid) },
	})
	if err != nil {
		t.Fatal(err)
	}
	ns, err := note.NewService(note.ServiceOpts{
		Store: store.New[models.Note](dir.NotesPath()),
		Now:   now,
		NewID: func() string { nid++; return fmt.Sprintf("n-%d", nid) },
	})
	if err != nil {
		t.Fatal(err)
	}

	opts := StartOpts{
		Assignments:    as,
		Notes:          ns,
		DataDir:        dir,
		CORSOrigins:    []string{"http://localhost:3000"},
		RequestTimeout: time.Minute,
		MaxBodyBytes:   1 << 20,
		Version:        "test",
		Now:            now,
	}
	for _, m := range mutate {
		m(&opts)
	}
	router, err := NewRouter(opts)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return &testEnv{router: router, assignments: as, notes: ns, dir: dir}
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page       int  `json:"page"`
		Limit      int  `json:"limit"`
		Total      int  `json:"total"`
		TotalPages int  `json:"totalPages"`
		HasNext    bool `json:"hasNext"`
		HasPrev    bool `json:"hasPrev"`
	} `json:"pagination"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && !strings.HasPrefix(path, "/api/export") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode envelope: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func assignmentBody(title, subject, due string) string {
	return fmt.Sprintf(`{"title":%q,"subject":%q,"dueDate":%q,"estimatedHours":2,"priority":"high","tags":["lab"]}`, title, subject, due)
}

func TestNewRouter_RequiresServices(t *testing.T) {
	if _, err := NewRouter(StartOpts{}); err == nil {
		t.Fatal("expected error without services")
	}
}

func TestInfoAndHealth(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodGet, "/api", "")
	if w.Code != http.StatusOK || !body.Success {
		t.Fatalf("GET /api = %d %+v", w.Code, body)
	}
	if !strings.Contains(string(body.Data), `"version":"test"`) {
		t.Errorf("info data = %s", body.Data)
	}

	w, body = env.do(t, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || body.Message != "API is healthy" {
		t.Fatalf("GET /api/health = %d %+v", w.Code, body)
	}
	if !strings.Contains(string(body.Data), "2026-03-10T12:00:00Z") {
		t.Errorf("health data = %s", body.Data)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	w, body := env.do(t, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body.Success || body.Error != "Route GET /api/nope not found" {
		t.Errorf("body = %+v", body)
	}
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestEnv(t)
	w, _ := env.do(t, http.MethodGet, "/api/health", "")
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"http://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/assignments", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("preflight %s = %d, want 200", tt.origin, w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("allow-origin for %s = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestCORS_Wildcard(t *testing.T) {
	env := newTestEnv(t, func(o *StartOpts) { o.CORSOrigins = []string{"*"} })
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://anything.example")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://anything.example" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestRequestTimeout(t *testing.T) {
	router := gin.New()
	router.Use(requestTimeout(time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	router.GET("/check", func(c *gin.Context) {
		time.Sleep(5 * time.Millisecond)
		if checkDeadline(c) {
			c.Status(http.StatusNoContent)
		}
	})

	for _, path := range []string{"/slow", "/check"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusRequestTimeout {
			t.Errorf("%s status = %d, want 408", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Request timeout") {
			t.Errorf("%s body = %s", path, w.Body.String())
		}
	}
}

func TestRequestTimeout_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(requestTimeout(0))
	router.GET("/", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); ok {
			t.Error("deadline set with zero timeout")
		}
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "kaboom") {
		t.Errorf("panic value leaked: %s", w.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	env := newTestEnv(t, func(o *StartOpts) { o.MaxBodyBytes = 64 })
	big := fmt.Sprintf(`{"title":%q}`, strings.Repeat("x", 200))
	w, body := env.do(t, http.MethodPost, "/api/notes", big)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413 (%+v)", w.Code, body)
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	dir := t.TempDir()
	as, err := assignment.NewService(assignment.ServiceOpts{
		Store: store.New[models.Assignment](filepath.Join(dir, "missing", store.AssignmentsFile)),
	})
	if err != nil {
		t.Fatal(err)
	}
	ns, err := note.NewService(note.ServiceOpts{
		Store: store.New[models.Note](filepath.Join(dir, store.NotesFile)),
	})
	if err != nil {
		t.Fatal(err)
	}
	router, err := NewRouter(StartOpts{Assignments: as, Notes: ns, DataDir: store.DataDir{Root: dir}})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/assignments",
		bytes.NewBufferString(assignmentBody("Lab", "Chem", "2026-04-01")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"error":"Internal server error"`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "missing") {
		t.Errorf("internal cause leaked: %s", w.Body.String())
	}
}
