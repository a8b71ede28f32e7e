package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cytsaiap-xyz/skills-manager/internal/catalog"
	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	cat, err := catalog.Scan(s.cfg.RepoPath())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"skills":     cat.Skills,
		"categories": cat.Categories,
	})
}

func (s *Server) handleSkillDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := catalog.Detail(s.cfg.RepoPath(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"skill":   detail,
	})
}

func (s *Server) handleInstalled(w http.ResponseWriter, r *http.Request) {
	listType, err := install.ParseListType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := s.resolver.List(r.Context(), install.Query{
		Type:        listType,
		ProjectPath: r.URL.Query().Get("projectPath"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"installed": state,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"config": map[string]any{
			"skillsRepoPath":   s.cfg.RepoPath(),
			"globalSkillsPath": s.cfg.GlobalPath(),
			"destinations":     s.cfg.Destinations(),
		},
	})
}

type downloadRequest struct {
	SkillID     string `json:"skillId"`
	Destination string `json:"destination"`
	ProjectPath string `json:"projectPath"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &validation.Error{Field: "body", Message: "invalid JSON", Err: err})
		return
	}

	for _, err := range []error{
		validation.Required("skillId", req.SkillID),
		validation.Required("destination", req.Destination),
	} {
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	dest, err := validation.Destination(req.Destination)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.installer.Install(r.Context(), install.Request{
		SkillID:     req.SkillID,
		Destination: dest,
		ProjectPath: req.ProjectPath,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     fmt.Sprintf("Skill %q copied successfully", res.SkillID),
		"destination": res.Path,
	})
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"error":   fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
	})
}

// statusFor maps error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", logging.Err(err))
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
