package api

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rankforge/site-backend/errs"
)

const maxJSONBody = 1 << 20

// decodeJSON reads a JSON body of at most 1MB into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody+1))
	if err != nil {
		return errs.Malformed("request body")
	}
	if len(body) > maxJSONBody {
		return errs.Malformed("request body").WithDetails("body exceeds 1MB")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errs.Malformed("request body").WithDetails("empty body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return errs.NewValidationError(typeErr.Field, "Invalid value for "+typeErr.Field)
		}
		return errs.Malformed("request body").WithCause(err)
	}
	return nil
}

func parseID(raw, field string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidIDError(field)
	}
	return uint(id), nil
}

// pathID reads the {id} route parameter, falling back to the id query parameter.
func pathID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		raw = r.URL.Query().Get("id")
	}
	if raw == "" {
		return 0, errs.NewValidationError("id", "id is required")
	}
	return parseID(raw, "id")
}

func queryInt(r *http.Request, key string, def, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func queryUint(r *http.Request, key string) (uint, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return parseID(raw, key)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
