package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
)

// Renderer manages template parsing and rendering.
//
// Templates are organized as:
//   - layouts/auth.html - base layout, defines "auth"
//   - components/*.html - reusable pieces (input field, image, views)
//   - partials/*.html - fragments swapped by htmx, also used by pages
//   - pages/*.html - full pages, each defines "content"
//
// Pages are stored as "page/<name>" and execute the layout; partials are
// stored as "partial/<name>" and execute the block of the same name.
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
	fsys      fs.FS
	isDev     bool
	mu        sync.RWMutex
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	// FS is rooted at the templates directory.
	FS     fs.FS
	Logger *slog.Logger

	// DevDir, when set with IsDev, is read from disk and reparsed on every
	// render so template edits show without a restart.
	DevDir string
	IsDev  bool
}

// NewRenderer creates a renderer and parses all templates once.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		logger:    cfg.Logger,
		fsys:      cfg.FS,
	}
	if cfg.IsDev && cfg.DevDir != "" {
		if info, err := os.Stat(cfg.DevDir); err == nil && info.IsDir() {
			r.fsys = os.DirFS(cfg.DevDir)
			r.isDev = true
		} else {
			cfg.Logger.Warn("template dir not found, using embedded templates", "dir", cfg.DevDir)
		}
	}
	if r.fsys == nil {
		return nil, fmt.Errorf("renderer requires a template filesystem")
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) loadTemplates() error {
	componentFiles, err := fs.Glob(r.fsys, "components/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob components: %w", err)
	}
	partialFiles, err := fs.Glob(r.fsys, "partials/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob partials: %w", err)
	}
	shared := append(componentFiles, partialFiles...)

	templates := make(map[string]*template.Template)

	// Partials render on their own for htmx swaps, so each gets the
	// components alongside it.
	for _, partial := range partialFiles {
		tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(r.fsys, shared...)
		if err != nil {
			return fmt.Errorf("failed to parse partial %s: %w", partial, err)
		}
		templates["partial/"+baseName(partial)] = tmpl
	}

	base, err := template.New("auth").Funcs(TemplateFuncs()).ParseFS(r.fsys, "layouts/auth.html")
	if err != nil {
		return fmt.Errorf("failed to parse auth layout: %w", err)
	}
	if len(shared) > 0 {
		base, err = base.ParseFS(r.fsys, shared...)
		if err != nil {
			return fmt.Errorf("failed to parse components into auth layout: %w", err)
		}
	}

	pageFiles, err := fs.Glob(r.fsys, "pages/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob pages: %w", err)
	}
	for _, page := range pageFiles {
		pageTmpl, err := base.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone layout for %s: %w", page, err)
		}
		pageTmpl, err = pageTmpl.ParseFS(r.fsys, page)
		if err != nil {
			return fmt.Errorf("failed to parse page %s: %w", page, err)
		}
		templates["page/"+baseName(page)] = pageTmpl
	}

	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()

	r.logger.Debug("templates loaded", "count", len(templates))
	return nil
}

func baseName(p string) string {
	return strings.TrimSuffix(path.Base(p), path.Ext(p))
}

// Render executes the named template ("page/index", "partial/card") into w.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	if r.isDev {
		if err := r.loadTemplates(); err != nil {
			return fmt.Errorf("template reload failed: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	return tmpl.ExecuteTemplate(w, executeName(name), data)
}

// executeName picks the block to run: the layout for pages, the block of the
// same name for partials.
func executeName(name string) string {
	if strings.HasPrefix(name, "partial/") {
		return strings.TrimPrefix(name, "partial/")
	}
	return "auth"
}

// RenderHTTP renders a template with the given status. Output is buffered so
// a failing template produces a clean 500 instead of half a page.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ListTemplates returns the names of all loaded templates.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}
