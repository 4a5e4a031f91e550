package preview

import (
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dgallion1/roadmapdocs/internal/metrics"
	"github.com/dgallion1/roadmapdocs/internal/render"
	"github.com/dgallion1/roadmapdocs/internal/tree"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<nav><a href="/">{{.Root}}</a></nav>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// Server serves a written roadmap tree as HTML. It never writes.
type Server struct {
	router  chi.Router
	root    string
	title   string
	metrics *metrics.Registry
	log     *slog.Logger
}

// NewServer serves the tree under root. title labels the home link.
func NewServer(root, title string, m *metrics.Registry, log *slog.Logger) *Server {
	s := &Server{
		root:    root,
		title:   title,
		metrics: m,
		log:     log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log, s.metrics))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/*", s.handlePage)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	file, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	src, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("read page", "path", r.URL.Path, "error", err)
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}

	page, err := render.Markdown(src, filepath.Base(file))
	if err != nil {
		s.log.Error("render page", "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = pageTmpl.Execute(w, map[string]any{
		"Title": page.Title,
		"Root":  s.title,
		"Body":  template.HTML(page.HTML),
	})
	if err != nil {
		s.log.Warn("write page", "path", r.URL.Path, "error", err)
	}
}

// resolve maps a URL path to a markdown file under root. Directories map to
// their index file; anything that is not markdown is rejected.
func (s *Server) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	rel := strings.TrimPrefix(clean, "/")
	if !filepath.IsLocal(filepath.FromSlash(rel)) && rel != "" {
		return "", false
	}
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err == nil && info.IsDir() {
		if rel == "" {
			return filepath.Join(full, tree.ReadmeFile), true
		}
		return filepath.Join(full, tree.IndexFile), true
	}
	if !strings.HasSuffix(full, ".md") {
		return "", false
	}
	return full, true
}
