package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/redact"
)

// getPathID extracts a positive integer id from the URL path parameters.
//
// Returns:
//   - (id, true): The parsed id if valid
//   - (0, false): If the parameter is missing or not a positive integer
func getPathID(r *http.Request, paramName string) (int64, bool) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handlePathID extracts a path id and writes a 400 response when it is
// invalid. The bool result reports whether the handler may continue.
func handlePathID(w http.ResponseWriter, r *http.Request, paramName string, log *slog.Logger) (int64, bool) {
	id, ok := getPathID(r, paramName)
	if !ok {
		if log == nil {
			log = logger.FromContextOrDefault(r.Context(), slog.Default())
		}
		log.Warn("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName)
		return 0, false
	}
	return id, true
}

// queryID reads an optional id filter from the query string. Missing or
// malformed values mean no filter, so ?doc=abc lists every card.
func queryID(r *http.Request, name string) *int64 {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// queryInt reads an optional integer from the query string, returning def
// when the value is missing or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// decodeAndValidate decodes the JSON body into req and validates it, writing
// a 400 response on failure. The bool result reports whether the handler may
// continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, log *slog.Logger) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// HandleAPIError maps err to a status code and a safe message and writes the
// error response. A status of 204 writes an empty body.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		shared.RespondNoContent(w)
		return
	}

	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}

	var opts []shared.ResponseOption
	if status == http.StatusGone {
		// Stale preview tokens usually mean the TTL is too short for how
		// long users take to pick cards.
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
