package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-local/internal/models"
	"github.com/adanyl0v/go-todo-local/internal/services"
	"github.com/adanyl0v/go-todo-local/internal/storage"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, storage.ErrNotFound
}

func (failingBackend) Set(context.Context, string, []byte) error {
	return storage.ErrQuotaExceeded
}

func newTestRouter(t *testing.T, backend storage.Backend) (*gin.Engine, services.TaskStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := services.NewTaskStore(zerolog.Nop(), backend, "", nil)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	router := gin.New()
	New(zerolog.Nop(), store).Register(router)
	return router, store
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, w.Body.String())
	}
	return v
}

func createTask(t *testing.T, router http.Handler, title string) models.Task {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/tasks", map[string]any{"title": title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return *decode[taskResponse](t, w).Task
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryBackend(0))
	if w := do(t, router, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryBackend(0))

	milk := createTask(t, router, "Buy milk")
	w := do(t, router, http.MethodPost, "/api/v1/tasks", map[string]any{
		"title":       "Walk dog",
		"description": "around the block",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}

	w = do(t, router, http.MethodPost, "/api/v1/tasks/"+milk.ID+"/toggle", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", w.Code)
	}
	if !decode[taskResponse](t, w).Task.Completed {
		t.Fatalf("expected task completed")
	}

	w = do(t, router, http.MethodGet, "/api/v1/tasks?filter=active", nil)
	list := decode[getTasksResponse](t, w)
	if list.Active != 1 || list.Completed != 1 {
		t.Fatalf("unexpected counts: %+v", list)
	}
	if len(list.Tasks) != 1 || list.Tasks[0].Title != "Walk dog" {
		t.Fatalf("unexpected filtered tasks: %+v", list.Tasks)
	}

	w = do(t, router, http.MethodPost, "/api/v1/clear-completed", nil)
	if w.Code != http.StatusOK || decode[countResponse](t, w).Count != 1 {
		t.Fatalf("clear completed: %d %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/v1/tasks", nil)
	list = decode[getTasksResponse](t, w)
	if len(list.Tasks) != 1 || list.Tasks[0].Title != "Walk dog" || list.Filter != models.FilterAll {
		t.Fatalf("unexpected tasks: %+v", list)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	router, store := newTestRouter(t, storage.NewMemoryBackend(0))

	for _, body := range []any{
		map[string]any{"title": "   "},
		map[string]any{"description": "no title"},
		map[string]any{"title": 5},
	} {
		w := do(t, router, http.MethodPost, "/api/v1/tasks", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d", body, w.Code)
		}
	}
	if n := len(store.Snapshot().Tasks); n != 0 {
		t.Fatalf("expected no tasks, got %d", n)
	}
}

func TestUpdateTask(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryBackend(0))
	task := createTask(t, router, "draft")

	w := do(t, router, http.MethodPut, "/api/v1/tasks/"+task.ID, map[string]any{
		"title":       "final",
		"description": "",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", w.Code)
	}
	updated := decode[taskResponse](t, w).Task
	if updated.Title != "final" || updated.Description == nil || *updated.Description != "" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	w = do(t, router, http.MethodPut, "/api/v1/tasks/missing", map[string]any{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", w.Code)
	}
}

func TestUnknownTask(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryBackend(0))

	if w := do(t, router, http.MethodPost, "/api/v1/tasks/missing/toggle", nil); w.Code != http.StatusNotFound {
		t.Fatalf("toggle missing: expected 404, got %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/api/v1/tasks/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", w.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	router, store := newTestRouter(t, storage.NewMemoryBackend(0))
	task := createTask(t, router, "delete me")

	if w := do(t, router, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if n := len(store.Snapshot().Tasks); n != 0 {
		t.Fatalf("expected no tasks, got %d", n)
	}
}

func TestInvalidFilter(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryBackend(0))
	if w := do(t, router, http.MethodGet, "/api/v1/tasks?filter=done", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPersistFailureIsAWarning(t *testing.T) {
	router, store := newTestRouter(t, failingBackend{})

	w := do(t, router, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "kept"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	resp := decode[taskResponse](t, w)
	if resp.Warning == "" {
		t.Fatalf("expected a persistence warning")
	}
	if n := len(store.Snapshot().Tasks); n != 1 {
		t.Fatalf("expected task kept in memory, got %d", n)
	}

	w = do(t, router, http.MethodDelete, "/api/v1/tasks/"+resp.Task.ID, nil)
	if w.Code != http.StatusOK || decode[map[string]string](t, w)["warning"] == "" {
		t.Fatalf("delete: expected 200 with warning, got %d %s", w.Code, w.Body.String())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	router, store := newTestRouter(t, storage.NewMemoryBackend(0))
	createTask(t, router, "one")
	two := createTask(t, router, "two")
	do(t, router, http.MethodPost, "/api/v1/tasks/"+two.ID+"/toggle", nil)

	w := do(t, router, http.MethodGet, "/api/v1/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "todos.json") {
		t.Fatalf("unexpected content disposition %q", got)
	}
	exported := w.Body.Bytes()

	other, otherStore := newTestRouter(t, storage.NewMemoryBackend(0))
	createTask(t, other, "replaced")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "todos.json")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err = part.Write(exported); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err = mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	other.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decode[countResponse](t, rec).Count != 2 {
		t.Fatalf("expected 2 imported tasks")
	}

	want, got := store.Snapshot().Tasks, otherStore.Snapshot().Tasks
	if len(want) != len(got) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i].ID != got[i].ID || want[i].Completed != got[i].Completed || !want[i].UpdatedAt.Equal(got[i].UpdatedAt) {
			t.Fatalf("task %d differs: %+v vs %+v", i, want[i], got[i])
		}
	}
}

func TestExportPDF(t *testing.T) {
	router, _ := newTestRouter(t, storage.NewMemoryBackend(0))
	createTask(t, router, "print me")

	w := do(t, router, http.MethodGet, "/api/v1/export?format=pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected pdf body")
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	router, store := newTestRouter(t, storage.NewMemoryBackend(0))
	createTask(t, router, "kept")

	for _, payload := range []string{`{"id":"a"}`, `"todos"`, `not json`, `[{"id":"a"}]`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/import", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, w.Code)
		}
		if decode[map[string]string](t, w)["error"] == "" {
			t.Fatalf("payload %s: expected error message", payload)
		}
	}

	tasks := store.Snapshot().Tasks
	if len(tasks) != 1 || tasks[0].Title != "kept" {
		t.Fatalf("collection changed: %+v", tasks)
	}
}
