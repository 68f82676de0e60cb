package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"gtodo/internal/service"
)

// RecordedRequest is one request seen by FakeAPI.
type RecordedRequest struct {
	Method    string
	Path      string
	RequestID string
	Header    http.Header
	Body      []byte
}

// FakeAPI is an HTTP server implementing the /api/todos contract in memory.
// IDs are sequential JSON numbers starting at 1.
type FakeAPI struct {
	mu       sync.Mutex
	todos    []service.Task
	nextID   int64
	status   int
	body     string
	requests []RecordedRequest
	server   *httptest.Server
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{nextID: 1}
	f.server = httptest.NewServer(f.Handler())
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base address of the server.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Close stops the server; later requests fail at the transport level.
func (f *FakeAPI) Close() {
	f.server.Close()
}

// Handler returns the API router.
func (f *FakeAPI) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(f.record)
	r.HandleFunc("/api/todos", f.list).Methods(http.MethodGet)
	r.HandleFunc("/api/todos", f.create).Methods(http.MethodPost)
	r.HandleFunc("/api/todos/{id}", f.update).Methods(http.MethodPut)
	r.HandleFunc("/api/todos/{id}", f.delete).Methods(http.MethodDelete)
	return r
}

// FailWith makes every later request answer with the given status.
// Zero restores normal behavior.
func (f *FakeAPI) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = ""
}

// RespondWith makes every later request answer 200 with a raw body.
func (f *FakeAPI) RespondWith(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = http.StatusOK
	f.body = body
}

// Seed stores a task directly and returns it.
func (f *FakeAPI) Seed(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := service.Task{
		ID:        service.NumericID(f.nextID),
		Title:     title,
		Completed: completed,
		CreatedAt: FakeCreatedAt,
	}
	f.nextID++
	f.todos = append(f.todos, task)
	return task
}

// Tasks returns a copy of the stored tasks.
func (f *FakeAPI) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.todos))
	copy(out, f.todos)
	return out
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.EscapedPath(),
			RequestID: r.Header.Get("X-Request-Id"),
			Header:    r.Header.Clone(),
			Body:      body,
		})
		status, raw := f.status, f.body
		f.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(raw))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, f.Tasks())
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var in service.NewTask
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	task := service.Task{
		ID:        service.NumericID(f.nextID),
		Title:     in.Title,
		Completed: in.Completed,
		DueDate:   in.DueDate,
		CreatedAt: FakeCreatedAt,
	}
	f.nextID++
	f.todos = append(f.todos, task)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, task)
}

func (f *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var in service.Task
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID.String() == id {
			f.todos[i].Title = in.Title
			f.todos[i].Completed = in.Completed
			f.todos[i].DueDate = in.DueDate
			writeJSON(w, http.StatusOK, f.todos[i])
			return
		}
	}
	http.NotFound(w, r)
}

func (f *FakeAPI) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID.String() == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
