package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/dberzins/envault/internal/common"
	"github.com/dberzins/envault/internal/cryptox"
)

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResp struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSONStatus(w, code, errorResp{Error: msg})
}

func tooMany(w http.ResponseWriter, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	writeError(w, http.StatusTooManyRequests, "too many requests")
}

// writeServiceError maps service sentinels to HTTP statuses. Messages stay
// generic; the interesting detail is logged server-side, not returned.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrInvalidOrExpiredToken):
		writeError(w, http.StatusBadRequest, "invalid or expired token")
	case errors.Is(err, cryptox.ErrInvalidPrivateKey):
		writeError(w, http.StatusForbidden, "invalid private key")
	case errors.Is(err, cryptox.ErrMissingMasterSecret):
		writeError(w, http.StatusConflict, "project has no master secret")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidEmail(email string) bool {
	return reEmail.MatchString(email)
}

func validatePassword(pw string) error {
	switch {
	case pw == "":
		return errors.New("password required")
	case len(pw) < 8:
		return errors.New("password must be at least 8 characters")
	case strings.Contains(pw, " "):
		return errors.New("password must not contain spaces")
	default:
		return nil
	}
}
