package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dberzins/envault/internal/cryptox"
	"github.com/dberzins/envault/internal/server/projects"
)

type variablePayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type projectCreateReq struct {
	Name       string            `json:"name"`
	PrivateKey string            `json:"private_key,omitempty"`
	Variables  []variablePayload `json:"variables"`
}

type projectUpdateReq struct {
	Name       string            `json:"name"`
	PrivateKey string            `json:"private_key,omitempty"`
	Variables  []variablePayload `json:"variables"`
}

type projectResp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Protected bool      `json:"protected"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sealedVariableResp struct {
	Name      string `json:"name"`
	Encrypted string `json:"encrypted"`
}

type projectDetailResp struct {
	projectResp
	Variables []sealedVariableResp `json:"variables"`
}

type revealReq struct {
	PrivateKey string `json:"private_key,omitempty"`
}

type revealResp struct {
	Values map[string]string `json:"values"`
	Names  []string          `json:"names"`
}

func toProjectResp(p *projects.Project) projectResp {
	return projectResp{
		ID:        p.ID,
		Name:      p.Name,
		Protected: p.MasterKeyHash != "",
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toVariables(in []variablePayload) ([]cryptox.Variable, bool) {
	out := make([]cryptox.Variable, 0, len(in))
	for _, v := range in {
		if strings.TrimSpace(v.Name) == "" {
			return nil, false
		}
		out = append(out, cryptox.Variable{Name: strings.TrimSpace(v.Name), Value: v.Value})
	}
	return out, true
}

func (s *Server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req projectCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	vars, ok := toVariables(req.Variables)
	if !ok {
		writeError(w, http.StatusBadRequest, "variable name required")
		return
	}

	project, err := s.projects.Create(r.Context(), userIDFromContext(r.Context()), req.Name, req.PrivateKey, vars)
	if err != nil {
		s.logger.Error(r.Context(), "project create failed", "error", err)
		writeServiceError(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, toProjectResp(project))
}

func (s *Server) handleProjectList(w http.ResponseWriter, r *http.Request) {
	list, err := s.projects.List(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]projectResp, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResp(p))
	}
	writeJSON(w, out)
}

func (s *Server) handleProjectGet(w http.ResponseWriter, r *http.Request) {
	project, vars, err := s.projects.Get(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := projectDetailResp{projectResp: toProjectResp(project)}
	resp.Variables = make([]sealedVariableResp, 0, len(vars))
	for _, v := range vars {
		resp.Variables = append(resp.Variables, sealedVariableResp{Name: v.Name, Encrypted: v.Encrypted})
	}
	writeJSON(w, resp)
}

func (s *Server) handleProjectUpdate(w http.ResponseWriter, r *http.Request) {
	var req projectUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	vars, ok := toVariables(req.Variables)
	if !ok {
		writeError(w, http.StatusBadRequest, "variable name required")
		return
	}

	err := s.projects.Update(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), req.Name, req.PrivateKey, vars)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, noteResp{Note: "Project updated."})
}

func (s *Server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	err := s.projects.Delete(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectReveal(w http.ResponseWriter, r *http.Request) {
	var req revealReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	values, names, err := s.projects.Reveal(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), req.PrivateKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, revealResp{Values: values, Names: names})
}
