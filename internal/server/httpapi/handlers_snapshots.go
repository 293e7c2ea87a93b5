package httpapi

import (
	"net/http"
	"strings"
)

type presignPutResp struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type presignGetResp struct {
	URL string `json:"url"`
}

func (s *Server) handleSnapshotPresignPut(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.snapshots.GetPresignedPutUrl(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "presign put failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, presignPutResp{Key: key, URL: url})
}

func (s *Server) handleSnapshotPresignGet(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		writeError(w, http.StatusBadRequest, "key required")
		return
	}

	url, err := s.snapshots.GetPresignedGetUrl(r.Context(), key)
	if err != nil {
		s.logger.Error(r.Context(), "presign get failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, presignGetResp{URL: url})
}
