package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cardsort/internal/api"
	"cardsort/internal/catalog"
	"cardsort/internal/config"
	"cardsort/internal/logging"
	"cardsort/internal/services"
)

// maxScanBodyBytes bounds the uploaded card photo size.
const maxScanBodyBytes = 20 << 20

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address required")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/scan", srv.handleScan)
	mux.HandleFunc("/api/cards", srv.handleCards)
	mux.HandleFunc("/api/cards/", srv.handleCard)
	mux.HandleFunc("/api/rules", srv.handleRules)
	mux.HandleFunc("/api/rules/", srv.handleRule)
	mux.HandleFunc("/api/crop", srv.handleCrop)
	mux.HandleFunc("/api/dictionary/reload", srv.handleDictionaryReload)
	mux.HandleFunc("/api/export/csv", srv.handleExportCSV)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:         status.Running,
		PID:             status.PID,
		SorterState:     string(status.SorterState),
		SorterFaulted:   status.SorterFaulted,
		CatalogDBPath:   status.CatalogDBPath,
		LockFilePath:    status.LockFilePath,
		CatalogCount:    status.CatalogCount,
		DictionaryTerms: status.DictionaryTerms,
		CameraEnabled:   status.CameraEnabled,
		CameraPresent:   status.CameraPresent,
	})
}

// handleScan accepts a PNG or JPEG card photo and runs it through the
// pipeline. Degraded scans still return 200 with the result; only a
// refused or failed sort cycle maps to an error status.
func (s *apiServer) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	img, _, err := image.Decode(http.MaxBytesReader(w, r.Body, maxScanBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode image: %v", err))
		return
	}

	result, err := s.daemon.pipeline.ProcessScan(r.Context(), img)
	switch {
	case errors.Is(err, services.ErrBusy):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		payload := api.FromScanResult(result)
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": err.Error(),
			"scan":  payload,
		})
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromScanResult(result))
}

func (s *apiServer) handleCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter, err := cardFilter(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cards, err := s.daemon.store.ListCards(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.CardListResponse{Cards: api.FromCards(cards)})
}

func (s *apiServer) handleCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/api/cards/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "card not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		card, err := s.daemon.store.GetCard(r.Context(), id)
		if errors.Is(err, services.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "card not found")
			return
		}
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, api.CardResponse{Card: api.FromCard(card)})
	case http.MethodDelete:
		deleted, err := s.daemon.store.DeleteCard(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !deleted {
			s.writeError(w, http.StatusNotFound, "card not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rules, err := s.daemon.store.ListRules(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, api.RuleListResponse{Rules: api.FromRules(rules)})
	case http.MethodPost:
		var req api.CreateRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode rule: %v", err))
			return
		}
		rule, err := s.daemon.store.CreateRule(r.Context(), catalog.Rule{
			Name:      req.Name,
			Attribute: catalog.Attribute(req.Attribute),
			Operator:  catalog.Operator(req.Operator),
			Value:     req.Value,
			Direction: catalog.Direction(req.Direction),
		})
		if errors.Is(err, services.ErrValidation) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.RuleResponse{Rule: api.FromRule(rule)})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleRule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, ok := pathID(r.URL.Path, "/api/rules/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	deleted, err := s.daemon.store.DeleteRule(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleCrop(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, api.FromCrop(s.daemon.pipeline.Crop().Snapshot()))
	case http.MethodPut:
		var payload api.Crop
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode crop: %v", err))
			return
		}
		if err := s.daemon.pipeline.Crop().Reconfigure(payload.ToCrop()); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Info("crop band reconfigured",
			logging.Float64("left", payload.Left),
			logging.Float64("top", payload.Top),
			logging.Float64("right", payload.Right),
			logging.Float64("bottom", payload.Bottom))
		s.writeJSON(w, http.StatusOK, payload)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleDictionaryReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.daemon.corrector.Reload(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.ReloadResponse{Terms: s.daemon.corrector.Size()})
}

func (s *apiServer) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	cards, err := s.daemon.store.ListCards(r.Context(), catalog.Filter{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.csv"`)
	if err := api.WriteCardsCSV(w, cards); err != nil {
		s.logger.Error("csv export failed", logging.Error(err))
	}
}

func cardFilter(r *http.Request) (catalog.Filter, error) {
	var filter catalog.Filter
	query := r.URL.Query()
	filter.Color = strings.TrimSpace(query.Get("color"))
	if raw := strings.TrimSpace(query.Get("cmc")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid cmc %q", raw)
		}
		filter.CMC = &value
	}
	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, fmt.Errorf("invalid max_price %q", raw)
		}
		filter.MaxPrice = &value
	}
	return filter, nil
}

func pathID(path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
