// Package api serves sizing runs over HTTP.
//
//	POST /api/designs               size a configuration (JSON body or ?preset=)
//	GET  /api/designs               list stored runs
//	GET  /api/designs/{id}          stored design
//	GET  /api/designs/{id}/sheet    PDF design sheet
//	GET  /api/databases             component categories
//	GET  /api/databases/{category}  component records
//	GET  /api/presets               preset names per goal
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/report"
	"github.com/san-kum/uavsizer/internal/storage"
)

const maxBody = 1 << 20

type Server struct {
	src     design.Sources
	store   *storage.Store
	limiter *IPRateLimiter
}

// New returns a server; store may be nil to disable persistence.
func New(src design.Sources, store *storage.Store, r rate.Limit, burst int) *Server {
	return &Server{src: src, store: store, limiter: NewIPRateLimiter(r, burst)}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.limiter.LimitMiddleware)

	api.HandleFunc("/designs", s.createDesign).Methods("POST")
	api.HandleFunc("/designs", s.listDesigns).Methods("GET")
	api.HandleFunc("/designs/{id}", s.getDesign).Methods("GET")
	api.HandleFunc("/designs/{id}/sheet", s.getSheet).Methods("GET")
	api.HandleFunc("/databases", s.listDatabases).Methods("GET")
	api.HandleFunc("/databases/{category}", s.getDatabase).Methods("GET")
	api.HandleFunc("/presets", s.listPresets).Methods("GET")
	return router
}

// Handler wraps the router with permissive CORS headers.
func (s *Server) Handler() http.Handler {
	router := s.Router()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		router.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// status maps sizing error kinds to 422 and anything else to 500.
func status(err error) int {
	for _, kind := range []error{core.ErrDomain, core.ErrConfig, core.ErrMultipleApex, core.ErrNoFeasibleSelection} {
		if errors.Is(err, kind) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func (s *Server) config(r *http.Request) (*config.Config, error) {
	if name := r.URL.Query().Get("preset"); name != "" {
		goal := loading.Goal(r.URL.Query().Get("goal"))
		if goal == "" {
			goal = loading.GoalEndurance
		}
		cfg := config.GetPreset(goal, name)
		if cfg == nil {
			return nil, core.OptionError("api", "preset", name, fmt.Sprintf("one of %v", config.ListPresets(goal)))
		}
		return cfg, nil
	}

	cfg := config.DefaultConfig()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, cfg); err != nil {
			return nil, core.ConfigError("api", fmt.Sprintf("invalid json: %v", err))
		}
	}
	return cfg, nil
}

type created struct {
	ID     string         `json:"id,omitempty"`
	Design *design.Design `json:"design"`
}

func (s *Server) createDesign(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.config(r)
	if err != nil {
		writeError(w, status(err), err.Error())
		return
	}

	d, err := design.Size(cfg, s.src)
	if err != nil {
		s.src.Logger.Warn("sizing failed", "error", err)
		writeError(w, status(err), err.Error())
		return
	}

	out := created{Design: d}
	if s.store != nil {
		label := r.URL.Query().Get("label")
		if label == "" {
			label = string(cfg.Mission.Goal)
		}
		if out.ID, err = s.store.Save(label, d); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) listDesigns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []storage.RunMetadata{})
		return
	}
	runs, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) stored(w http.ResponseWriter, r *http.Request) (*design.Design, bool) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "storage disabled")
		return nil, false
	}
	id := mux.Vars(r)["id"]
	d, err := s.store.LoadDesign(id)
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "no such design: "+id)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return d, true
}

func (s *Server) getDesign(w http.ResponseWriter, r *http.Request) {
	if d, ok := s.stored(w, r); ok {
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) getSheet(w http.ResponseWriter, r *http.Request) {
	d, ok := s.stored(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"design.pdf\"")
	if err := report.Sheet(w, "", d); err != nil {
		s.src.Logger.Error("design sheet", "error", err)
	}
}

func (s *Server) listDatabases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.src.DB.ListCategories())
}

func (s *Server) getDatabase(w http.ResponseWriter, r *http.Request) {
	cat := db.Category(mux.Vars(r)["category"])
	if cat == db.Propellers {
		writeJSON(w, http.StatusOK, s.src.DB.Propellers())
		return
	}
	specs, err := s.src.DB.Specs(cat)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, specs)
}

func (s *Server) listPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[loading.Goal][]string{
		loading.GoalEndurance: config.ListPresets(loading.GoalEndurance),
		loading.GoalRange:     config.ListPresets(loading.GoalRange),
	})
}
