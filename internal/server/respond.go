package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing useful left to report to the client.
		_ = err
	}
}

func (s *Server) respondWithError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		s.log.Warn(userMsg, zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Message: userMsg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}
