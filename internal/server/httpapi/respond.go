package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sgubproject/listd/internal/errs"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 256 << 10

type errorBody struct {
	Error string `json:"error"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Wrap(errs.Validation, "invalid request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a classified error to its status. Non-exposable failures
// are logged with full detail and answered with a generic message.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := errs.KindOf(err)
	if !kind.Expose() {
		log.Error("internal error", zap.Error(err))
		writeJSON(w, kind.Status(), errorBody{Error: "Internal Server Error"})
		return
	}
	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	writeJSON(w, kind.Status(), errorBody{Error: msg})
}
