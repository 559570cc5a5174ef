// Package site serves the frontend HTML pages and their static assets.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
)

// Errors attached to not-found log lines.
var (
	ErrPageNotFound  = errors.New("page not found")
	ErrAssetNotFound = errors.New("static asset not found")
)

// Page maps a route to an HTML file at the root of the frontend directory.
type Page struct {
	Name string // metrics label
	Path string // route
	File string // file name inside the frontend directory
}

// DefaultPages lists the pages in registration order. "/" is first so it
// wins over any later handler registered on the same route.
var DefaultPages = []Page{
	{Name: "index", Path: "/", File: "index.html"},
	{Name: "dashboard", Path: "/dashboard", File: "dashboard.html"},
	{Name: "login", Path: "/login", File: "login.html"},
}

// StaticPrefix is the URL prefix mapped to the frontend's static/ subdirectory.
const StaticPrefix = "/static/"

// Site serves pages and assets from a frontend file system.
type Site struct {
	frontend fs.FS
	static   fs.FS
	pages    []Page
	logger   logger.Logger
	notFound http.Handler
}

// Option configures a Site.
type Option func(*Site)

// WithPages replaces DefaultPages.
func WithPages(pages []Page) Option {
	return func(s *Site) {
		if len(pages) > 0 {
			s.pages = pages
		}
	}
}

// WithLogger sets the site logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotFoundHandler sets the handler used when a page or asset is missing.
func WithNotFoundHandler(h http.Handler) Option {
	return func(s *Site) {
		if h != nil {
			s.notFound = h
		}
	}
}

// New returns a Site over frontend, which must hold the page files and a
// static/ subdirectory. A missing static/ directory only makes every asset
// request a 404.
func New(frontend fs.FS, opts ...Option) *Site {
	if frontend == nil {
		panic("frontend fs is nil")
	}
	s := &Site{
		frontend: frontend,
		pages:    DefaultPages,
		notFound: http.NotFoundHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("site")
	}
	if sub, err := fs.Sub(frontend, "static"); err == nil {
		s.static = sub
	}
	return s
}

// Register attaches the page routes and the static prefix to r.
func (s *Site) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	for _, p := range s.pages {
		r.Handle(p.Path, s.PageHandler(p)).Methods(http.MethodGet, http.MethodHead)
	}
	r.PathPrefix(StaticPrefix).Handler(http.StripPrefix(StaticPrefix, s.StaticHandler())).Methods(http.MethodGet, http.MethodHead)
}

// PageHandler serves one page file, or the not-found handler if the file is absent.
func (s *Site) PageHandler(p Page) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := fs.Stat(s.frontend, p.File)
		if err != nil || info.IsDir() {
			metrics.RecordStaticNotFound()
			s.logger.Warn(r.Context(), "page file missing",
				logger.String("page", p.Name), logger.String("file", p.File), logger.Error(ErrPageNotFound))
			s.notFound.ServeHTTP(w, r)
			return
		}
		metrics.RecordPageServed(p.Name)
		http.ServeFileFS(w, r, s.frontend, p.File)
	})
}
