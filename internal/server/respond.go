package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError emits the structured error payload shared by every failure
// outcome.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"Error": msg})
}

// decodeBody enforces the JSON content type on write verbs and decodes the
// raw object, so the validator sees exactly the keys the client sent.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "Server only accepts application/json data")
		return nil, false
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "The request body is not valid JSON")
		return nil, false
	}
	return body, true
}

// fail logs a store-level failure and reports it as a generic error. The API
// deliberately does not distinguish store outages from other failures.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "Unable to complete the request")
}

// collectionURL rebuilds the canonical base URL of a collection from the
// incoming request, so self locators and next links point back at this host.
func collectionURL(r *http.Request, collection string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host + "/api/" + collection
}

// parseID parses a decimal resource id from a URL segment.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}
