// Package rest serves option sources over HTTP and consumes them from the
// widget side: a chi server with a websocket push channel, an HTTP client
// provider, and a listener that turns pushes into label refresh broadcasts.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"comboselect/internal/catalog"
	"comboselect/internal/domain"
	"comboselect/internal/provider"
)

// LabelWriter persists a label change for one option of a source
type LabelWriter interface {
	UpdateLabel(ctx context.Context, source, value, label string) error
}

// LabelWriterFunc adapts a function to LabelWriter
type LabelWriterFunc func(ctx context.Context, source, value, label string) error

// UpdateLabel calls f
func (f LabelWriterFunc) UpdateLabel(ctx context.Context, source, value, label string) error {
	return f(ctx, source, value, label)
}

// Config holds server configuration.
type Config struct {
	Addr      string
	CacheSize int
	Sources   map[string]provider.Provider
	Writer    LabelWriter // nil makes label updates answer 405
	AccessLog *log.Logger // one line per request when set
}

// Server exposes option sources over HTTP
type Server struct {
	addr    string
	sources map[string]provider.Provider
	writer  LabelWriter
	hub     *Hub
	access  *log.Logger
	router  chi.Router

	// cacheMu orders search cache fills against purges; a fill is dropped
	// when the source's generation moved while its search ran
	cacheMu sync.Mutex
	cache   *lru.Cache[string, domain.OptionList]
	gens    map[string]uint64
}

// NewServer builds the router
func NewServer(cfg Config) (*Server, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, domain.OptionList](size)
	if err != nil {
		return nil, fmt.Errorf("creating search cache: %w", err)
	}

	// every client refetches the same label after a change broadcast
	sources := make(map[string]provider.Provider, len(cfg.Sources))
	for name, p := range cfg.Sources {
		sources[name] = provider.Dedup(p)
	}

	s := &Server{
		addr:    cfg.Addr,
		sources: sources,
		writer:  cfg.Writer,
		cache:   cache,
		gens:    make(map[string]uint64),
		hub:     NewHub(),
		access:  cfg.AccessLog,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.access != nil {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.access, NoColor: true}))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/sources", s.listSources)

	r.Route("/sources/{source}", func(r chi.Router) {
		r.Get("/options", s.getOptions)
		r.Get("/search", s.search)
		r.Get("/label", s.getLabel)
		r.Get("/labels", s.getLabels)
		r.Put("/options/{value}/label", s.putLabel)
		r.Get("/events", s.events)
	})
	return r
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the websocket hub
func (s *Server) Hub() *Hub { return s.hub }

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("option server listening on %s (%d sources)", s.addr, len(s.sources))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// source resolves the {source} path parameter, answering 404 when unknown
func (s *Server) source(w http.ResponseWriter, r *http.Request) (string, provider.Provider, bool) {
	name := chi.URLParam(r, "source")
	p, ok := s.sources[name]
	if !ok {
		writeError(w, http.StatusNotFound, "UNKNOWN_SOURCE", "unknown source: "+name)
		return "", nil, false
	}
	return name, p, true
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) getOptions(w http.ResponseWriter, r *http.Request) {
	name, p, ok := s.source(w, r)
	if !ok {
		return
	}
	list, err := p.FetchInitial(r.Context())
	if err != nil {
		providerError(w, name, "options", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	name, p, ok := s.source(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	key := cacheKey(name, q)
	if list, ok := s.cache.Get(key); ok {
		writeJSON(w, http.StatusOK, list)
		return
	}

	gen := s.generation(name)
	list, err := p.Search(r.Context(), q)
	if err != nil {
		providerError(w, name, "search", err)
		return
	}
	list = nonNil(list)
	s.fill(name, gen, key, list.Clone())
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getLabel(w http.ResponseWriter, r *http.Request) {
	name, p, ok := s.source(w, r)
	if !ok {
		return
	}
	value := r.URL.Query().Get("value")
	if value == "" {
		writeError(w, http.StatusBadRequest, "MISSING_VALUE", "value is required")
		return
	}
	label, err := p.LabelFor(r.Context(), value)
	if err != nil {
		providerError(w, name, "label", err)
		return
	}
	writeJSON(w, http.StatusOK, labelBody{Value: value, Label: label})
}

func (s *Server) getLabels(w http.ResponseWriter, r *http.Request) {
	name, p, ok := s.source(w, r)
	if !ok {
		return
	}
	values := r.URL.Query()["value"]
	opts, err := p.LabelsFor(r.Context(), values)
	if err != nil {
		providerError(w, name, "labels", err)
		return
	}
	if opts == nil {
		opts = []domain.Option{}
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) putLabel(w http.ResponseWriter, r *http.Request) {
	name, _, ok := s.source(w, r)
	if !ok {
		return
	}
	if s.writer == nil {
		writeError(w, http.StatusMethodNotAllowed, "READ_ONLY", "labels of "+name+" can't be changed")
		return
	}
	value := chi.URLParam(r, "value")
	var body labelBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid label body")
		return
	}
	if strings.TrimSpace(body.Label) == "" {
		writeError(w, http.StatusBadRequest, "MISSING_LABEL", "label is required")
		return
	}

	if err := s.writer.UpdateLabel(r.Context(), name, value, body.Label); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		providerError(w, name, "update", err)
		return
	}

	s.purge(name)
	s.hub.Broadcast(Message{Type: MessageLabelChanged, Source: name, Value: value, Label: body.Label})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	name, _, ok := s.source(w, r)
	if !ok {
		return
	}
	s.hub.Serve(w, r, name)
}

func (s *Server) generation(source string) uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.gens[source]
}

// fill caches a search result unless the source changed since gen
func (s *Server) fill(source string, gen uint64, key string, list domain.OptionList) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.gens[source] != gen {
		return
	}
	s.cache.Add(key, list)
}

// purge drops cached searches of one source and bumps its generation
func (s *Server) purge(source string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gens[source]++
	prefix := cacheKey(source, "")
	for _, k := range s.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Remove(k)
		}
	}
}

func cacheKey(source, query string) string {
	return source + "\x00" + strings.ToLower(strings.TrimSpace(query))
}

func providerError(w http.ResponseWriter, source, op string, err error) {
	if errors.Is(err, provider.ErrNotSupported) {
		writeError(w, http.StatusNotImplemented, "NOT_SUPPORTED", fmt.Sprintf("%s does not support %s", source, op))
		return
	}
	log.Printf("rest: %s %s failed: %v", source, op, err)
	writeError(w, http.StatusInternalServerError, "PROVIDER_ERROR", "provider failed")
}

func nonNil(list domain.OptionList) domain.OptionList {
	if list == nil {
		return domain.OptionList{}
	}
	return list
}
