package content

import (
	"slices"
	"strings"
	"time"

	"github.com/rankforge/site-backend/models"
)

type RedirectionInput struct {
	FromPath   Field[string] `json:"from_path"`
	ToPath     Field[string] `json:"to_path"`
	StatusCode Field[int]    `json:"status_code"`
}

func (in RedirectionInput) validate(mode Mode) error {
	v := &Validator{}
	v.requiredText(mode, in.FromPath, "from_path", "From path")
	v.requiredText(mode, in.ToPath, "to_path", "To path")
	if p := text(in.FromPath); p != "" {
		v.Check(strings.HasPrefix(p, "/"), "from_path", "From path must start with /")
	}
	if p := text(in.ToPath); p != "" {
		v.Check(validAbsoluteOrRelative(p), "to_path", "To path must start with / or be a full http(s) URL")
	}
	if in.StatusCode.Present() {
		v.Check(ValidRedirectStatus(in.StatusCode.Value), "status_code", "Status code must be 301, 302, 307 or 308")
	}
	return v.Err()
}

// NormalizePath drops trailing slashes so /old-page/ and /old-page name the same redirection.
// The root path stays /.
func NormalizePath(p string) string {
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" && strings.HasPrefix(p, "/") {
		return "/"
	}
	return trimmed
}

func ValidRedirectStatus(code int) bool {
	return slices.Contains(models.RedirectStatusCodes, code)
}

func (in RedirectionInput) statusCode() int {
	if in.StatusCode.Present() {
		return in.StatusCode.Value
	}
	return models.DefaultRedirectStatus
}

func (in RedirectionInput) Redirection(now time.Time) (models.Redirection, error) {
	if err := in.validate(Create); err != nil {
		return models.Redirection{}, err
	}
	return models.Redirection{
		FromPath:   NormalizePath(text(in.FromPath)),
		ToPath:     text(in.ToPath),
		StatusCode: in.statusCode(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Changes returns the assignments for present keys. An explicit null status code resets it to 301.
func (in RedirectionInput) Changes(now time.Time) (map[string]any, error) {
	if err := in.validate(Update); err != nil {
		return nil, err
	}
	c := changeSet{}
	c.text("from_path", in.FromPath)
	if from, ok := c["from_path"].(string); ok {
		c["from_path"] = NormalizePath(from)
	}
	c.text("to_path", in.ToPath)
	if in.StatusCode.Set {
		c["status_code"] = in.statusCode()
	}
	return c.touch(now), nil
}
