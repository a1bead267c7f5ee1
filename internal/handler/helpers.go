package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gibber-dev/gibber/internal/domain"
	internal_errors "github.com/gibber-dev/gibber/internal/errors"
	"github.com/gibber-dev/gibber/internal/middleware"
)

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("invalid %s: must be an integer", paramName),
			StatusCode: http.StatusBadRequest,
		}
	}
	return val, nil
}

// viewerFromQuery reads the optional viewer profile id used for interaction
// annotation. Absent viewer means no interactions are reported true.
func viewerFromQuery(r *http.Request) (*domain.ProfileId, error) {
	raw := r.URL.Query().Get("viewer")
	if raw == "" {
		return nil, nil
	}
	id, err := parseIntParam(raw, "viewer")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// callerFromContext fetches the identity stored by the auth middleware.
func callerFromContext(r *http.Request) (domain.Caller, error) {
	caller, ok := middleware.GetCallerFromContext(r)
	if !ok {
		return domain.Caller{}, &internal_errors.ErrorWithStatusCode{
			Message:    "Unauthorized",
			StatusCode: http.StatusUnauthorized,
		}
	}
	return caller, nil
}
