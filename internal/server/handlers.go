package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"docbridge/internal/conversion"
	"docbridge/internal/format"
	"docbridge/internal/logging"
	"docbridge/internal/services"
	"docbridge/internal/staging"
)

// uploadOverhead leaves room for the JSON envelope around base64 file data.
const uploadOverhead = 64 * 1024

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome := s.orchestrator.Run(r.Context(), req.toRequest())
	s.writeJSON(w, http.StatusOK, outcome.Result())
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, format.Descriptors())
}

func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := s.stager.List()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entries == nil {
			entries = []staging.Entry{}
		}
		s.writeJSON(w, http.StatusOK, entries)
	case http.MethodPost:
		s.handleUpload(w, r)
	case http.MethodDelete:
		if err := s.stager.Cleanup(); err != nil {
			s.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := int64(base64.StdEncoding.EncodedLen(int(s.stager.MaxBytes()))) + uploadOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the configured size limit")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	path, err := s.stager.Save(req.FileName, req.FileData)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, uploadResponse{Path: path})
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.probe(r.Context())
	s.writeJSON(w, http.StatusOK, toolResponse{
		Available: status.Available,
		Command:   status.Command,
		Version:   status.Version,
		Detail:    status.Detail,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = parsed
		}
		entries, err := s.history.List(r.Context(), limit)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, entries)
	case http.MethodDelete:
		removed, err := s.history.Clear(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, clearResponse{Removed: removed})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.ErrorWithContext(s.logger, "failed to encode response", "response_encode_failed",
			logging.Error(err),
			logging.Int("status", status),
		)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps staging and conversion errors onto HTTP statuses.
// Caller mistakes are 400; anything else is a server-side failure.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := services.KindOf(err)
	switch {
	case errors.Is(err, staging.ErrInvalidUpload):
		status = http.StatusBadRequest
	case kind == services.KindUnsupportedFormat, kind == services.KindInvalidPath:
		status = http.StatusBadRequest
	}
	resp := errorResponse{Error: err.Error()}
	if kind != "" {
		resp.Kind = string(kind)
		resp.Hint = conversion.KindHint(kind)
		resp.Tips = conversion.KindTips(kind)
	}
	s.writeJSON(w, status, resp)
}
