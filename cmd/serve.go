package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terralode/facility-cli/internal/dedupe"
	"github.com/terralode/facility-cli/internal/geo"
	"github.com/terralode/facility-cli/internal/model"
	"github.com/terralode/facility-cli/internal/ownership"
	"github.com/terralode/facility-cli/internal/resolver"
	"github.com/terralode/facility-cli/internal/store"
)

var servePort int

// apiServer bundles the resolution components behind HTTP handlers. The
// resolver cache is not thread-safe, so resolution endpoints serialize
// through mu.
type apiServer struct {
	mu       sync.Mutex
	resolver *resolver.Resolver
	parser   *ownership.Parser
	checker  *geo.Checker
	store    store.Store
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resolution HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		checker, err := newChecker()
		if err != nil {
			return err
		}

		r := newResolver(ctx)
		api := &apiServer{
			resolver: r,
			parser:   ownership.New(r),
			checker:  checker,
			store:    st,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.routes(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/v1/stats", s.handleStats)
	r.Post("/v1/resolve", s.handleResolve)
	r.Post("/v1/ownership", s.handleOwnership)
	r.Post("/v1/coordinates/check", s.handleCheck)
	r.Post("/v1/duplicates/check", s.handleDuplicates)

	return r
}

type resolveRequest struct {
	Name        string            `json:"name"`
	Coordinate  *model.Coordinate `json:"coordinate,omitempty"`
	CountryHint string            `json:"country_hint,omitempty"`
}

func (s *apiServer) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	s.mu.Lock()
	company := s.resolver.Resolve(r.Context(), req.Name, req.Coordinate, req.CountryHint)
	s.mu.Unlock()

	if company == nil {
		writeJSON(w, http.StatusOK, map[string]any{"resolved": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resolved": true, "company": company})
}

type ownershipRequest struct {
	Text        string            `json:"text"`
	Coordinate  *model.Coordinate `json:"coordinate,omitempty"`
	CountryHint string            `json:"country_hint,omitempty"`
}

func (s *apiServer) handleOwnership(w http.ResponseWriter, r *http.Request) {
	var req ownershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	entries := s.parser.Parse(r.Context(), req.Text, req.Coordinate, req.CountryHint)
	s.mu.Unlock()

	if entries == nil {
		entries = []model.OwnershipEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"owners": entries})
}

type checkRequest struct {
	FacilityID  string  `json:"facility_id,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	CountryCode string  `json:"country_code"`
}

func (s *apiServer) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CountryCode == "" {
		writeError(w, http.StatusBadRequest, "country_code is required")
		return
	}

	verdict := s.checker.Check(req.FacilityID, req.Lat, req.Lon, req.CountryCode)
	writeJSON(w, http.StatusOK, verdict)
}

type duplicatesRequest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Coordinate  *model.Coordinate `json:"coordinate,omitempty"`
	CountryCode string            `json:"country_code,omitempty"`
}

func (s *apiServer) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	var req duplicatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := s.store.ListFacilities(r.Context(), store.FacilityFilter{CountryCode: req.CountryCode})
	if err != nil {
		zap.L().Error("serve: list facilities failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store unavailable")
		return
	}

	match := dedupe.FindDuplicate(req.ID, req.Name, req.Coordinate, existing)
	if match == nil {
		writeJSON(w, http.StatusOK, map[string]any{"duplicate": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"duplicate": true, "match": match})
}

func (s *apiServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	stats := map[string]int{
		"cache_size":  s.resolver.CacheSize(),
		"corpus_size": s.resolver.CorpusSize(),
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
