package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/Tough-Day/conference-invites/fault"
	"github.com/Tough-Day/conference-invites/log"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log a debug message, and send an HTTP response with status 404 and default text
func LogNotFound(w http.ResponseWriter, code string, id any) {
	log.Debugf("%s: not found (%v)", code, id)
	w.WriteHeader(http.StatusNotFound)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// LogFault maps a fault value onto the wire: validation faults become a 400
// with the offending field names, not-found a 404, conflicts a 409,
// everything else a logged 500.
func LogFault(w http.ResponseWriter, r *http.Request, code string, err error) {
	switch {
	case fault.IsValidationError(err):
		log.Debugf("%s: %s", code, err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]any{
			"error":  "validation failed",
			"fields": fault.ValidationFields(err),
		})
	case errors.Is(err, fault.ErrNotFound):
		LogNotFound(w, code, nil)
	case errors.Is(err, fault.ErrConflict):
		LogStatus(w, http.StatusConflict, log.DebugLevel, code)
	default:
		LogInternalError(w, code, err)
	}
}
