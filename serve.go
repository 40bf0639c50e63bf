package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/errgroup"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem; font-family: sans-serif; line-height: 1.5; }
pre { background: #f6f8fa; padding: 0.75rem; overflow-x: auto; }
code { background: #f6f8fa; padding: 0.1rem 0.25rem; }
kbd { background: #eee; border-radius: 3px; padding: 0.1rem 0.3rem; font-size: 0.8em; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

// docsServer renders the generated markdown files as HTML for local preview,
// so writers can check the output without a full site generator.
type docsServer struct {
	dir  string
	ext  string
	log  *slog.Logger
	md   goldmark.Markdown
	page *template.Template
}

func newDocsServer(dir, ext string, log *slog.Logger) *docsServer {
	return &docsServer{
		dir: dir,
		ext: ext,
		log: log,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		page: template.Must(template.New("page").Parse(pageTemplate)),
	}
}

func (s *docsServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/{page}", s.handlePage)
	return r
}

func (s *docsServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "."+s.ext) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var md bytes.Buffer
	md.WriteString("# Generated documentation\n\n")
	if len(names) == 0 {
		md.WriteString("No documentation files found.\n")
	}
	for _, name := range names {
		fmt.Fprintf(&md, "- [%s](/%s)\n", name, name)
	}
	s.render(w, "Generated documentation", md.Bytes())
}

func (s *docsServer) handlePage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "page")
	if name != filepath.Base(name) || !strings.HasSuffix(name, "."+s.ext) {
		http.NotFound(w, r)
		return
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, name, data)
}

func (s *docsServer) render(w http.ResponseWriter, title string, source []byte) {
	var body bytes.Buffer
	if err := s.md.Convert(source, &body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.page.Execute(w, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())})
}

// runServe serves the output directory until ctx is cancelled, optionally
// regenerating on source changes.
func runServe(ctx context.Context, opts options, addr string, watch bool, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newDocsServer(opts.outputPath, opts.outputFormat, log).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving docs", slog.String("addr", addr), slog.String("dir", opts.outputPath))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if watch {
		g.Go(func() error {
			return watchAndRegenerate(ctx, opts, log)
		})
	}
	return g.Wait()
}
