package backend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// fakeCreds is a minimal Credentials backed by a string.
type fakeCreds struct {
	mu          sync.Mutex
	token       string
	invalidated int
}

func (c *fakeCreds) Token() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.token != ""
}

func (c *fakeCreds) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.invalidated++
}

func (c *fakeCreds) invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

// fakeService imitates the paper analysis service closely enough for the
// client: one user, one valid token, an in-memory paper list.
type fakeService struct {
	mu       sync.Mutex
	token    string
	papers   []Paper
	models   []string
	hits     map[string]int
	headers  map[string]http.Header
	bodies   map[string][]byte
	upload   struct{ name, content string }
	badJSON  bool
	nilLists bool
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	fs := &fakeService{
		token:   "abc",
		models:  []string{"phi3:mini", "llama3"},
		hits:    map[string]int{},
		headers: map[string]http.Header{},
		bodies:  map[string][]byte{},
	}

	r := mux.NewRouter()
	r.HandleFunc(PathHealth, fs.health).Methods(http.MethodGet)
	r.HandleFunc(PathSignup, fs.signup).Methods(http.MethodPost)
	r.HandleFunc(PathToken, fs.login).Methods(http.MethodPost)
	r.Handle(PathUploadPaper, fs.auth(fs.uploadPaper)).Methods(http.MethodPost)
	r.Handle(PathListPapers, fs.auth(fs.listPapers)).Methods(http.MethodGet)
	r.Handle(PathRecommendPapers, fs.auth(fs.recommend)).Methods(http.MethodGet).Queries("keyword", "{keyword}")
	r.Handle(PathSummarizeFull, fs.auth(fs.summarizeFull)).Methods(http.MethodPost)
	r.Handle(PathSummarizeQuery, fs.auth(fs.summarizeQuery)).Methods(http.MethodPost)
	r.Handle(PathGlobalQuery, fs.auth(fs.globalQuery)).Methods(http.MethodPost)
	r.Handle(PathModels, fs.auth(fs.listModels)).Methods(http.MethodGet)

	srv := httptest.NewServer(fs.record(r))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeService) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		fs.mu.Lock()
		fs.hits[r.URL.Path]++
		fs.headers[r.URL.Path] = r.Header.Clone()
		fs.bodies[r.URL.Path] = body
		fs.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (fs *fakeService) auth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		want := "Bearer " + fs.token
		fs.mu.Unlock()
		if r.Header.Get("Authorization") != want {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next(w, r)
	})
}

// set mutates the service state under its lock.
func (fs *fakeService) set(fn func(fs *fakeService)) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fn(fs)
}

func (fs *fakeService) hitCount(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func (fs *fakeService) header(path string) http.Header {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.headers[path]
}

func (fs *fakeService) body(path string) []byte {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.bodies[path]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (fs *fakeService) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Paper analysis API is running"})
}

func (fs *fakeService) signup(w http.ResponseWriter, r *http.Request) {
	var in signupBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body"}, "msg": "invalid JSON"}},
		})
		return
	}
	if in.Username == "taken" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already exists"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User created successfully"})
}

func (fs *fakeService) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "pw" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}
	fs.mu.Lock()
	token := fs.token
	fs.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (fs *fakeService) uploadPaper(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	defer f.Close()
	content, _ := io.ReadAll(f)

	fs.mu.Lock()
	fs.upload.name = hdr.Filename
	fs.upload.content = string(content)
	fs.papers = append(fs.papers, Paper{ID: "p-1", Title: strings.TrimSuffix(hdr.Filename, ".pdf")})
	fs.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Paper uploaded", "paper_id": "p-1"})
}

func (fs *fakeService) listPapers(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.nilLists {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	papers := fs.papers
	if papers == nil {
		papers = []Paper{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": papers})
}

func (fs *fakeService) recommend(w http.ResponseWriter, r *http.Request) {
	keyword := strings.ToLower(r.URL.Query().Get("keyword"))
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := []Paper{}
	for _, p := range fs.papers {
		if strings.Contains(strings.ToLower(p.Title), keyword) {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recommended_papers": out})
}

func (fs *fakeService) knownModel(m string) bool {
	for _, known := range fs.models {
		if known == m {
			return true
		}
	}
	return false
}

func (fs *fakeService) summarizeFull(w http.ResponseWriter, r *http.Request) {
	var in summarizeFullBody
	_ = json.NewDecoder(r.Body).Decode(&in)
	if !fs.knownModel(in.Model) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid model"})
		return
	}
	writeJSON(w, http.StatusOK, Summary{PaperID: in.PaperID, Summary: "A short summary.", Model: in.Model})
}

func (fs *fakeService) summarizeQuery(w http.ResponseWriter, r *http.Request) {
	var in summarizeQueryBody
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.PaperID == "missing" {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Paper not found"})
		return
	}
	writeJSON(w, http.StatusOK, Answer{Query: in.Query, Answer: "It proposes X.", Model: in.Model})
}

func (fs *fakeService) globalQuery(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query     string `json:"query"`
		Model     string `json:"model"`
		UsePapers *bool  `json:"use_papers"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	used := in.UsePapers == nil || *in.UsePapers
	writeJSON(w, http.StatusOK, Answer{Query: in.Query, Answer: "Across your papers: Y.", Model: in.Model, UsedPapers: &used})
}

func (fs *fakeService) listModels(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.badJSON {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "<html>maintenance</html>")
		return
	}
	if fs.nilLists {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"supported_models": fs.models})
}

// newStaticServer answers every request with the same status and body.
func newStaticServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
