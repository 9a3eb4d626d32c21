package content

import (
	"regexp"
	"strings"
	"time"

	"github.com/rankforge/site-backend/errs"
	"github.com/rankforge/site-backend/models"
	"gorm.io/datatypes"
)

// Mode selects create rules (required fields enforced) or update rules (only present fields checked).
type Mode int

const (
	Create Mode = iota
	Update
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Problem is one rejected field.
type Problem struct {
	Field   string
	Message string
}

// Validator accumulates problems so a request reports all of them at once.
type Validator struct {
	problems []Problem
}

func (v *Validator) Add(field, message string) {
	v.problems = append(v.problems, Problem{Field: field, Message: message})
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.Add(field, message)
	}
}

// Err returns nil when no problem was recorded. Otherwise the messages are joined and the
// first offending field is reported.
func (v *Validator) Err() error {
	if len(v.problems) == 0 {
		return nil
	}
	msgs := make([]string, len(v.problems))
	for i, p := range v.problems {
		msgs[i] = p.Message
	}
	return errs.NewValidationError(v.problems[0].Field, strings.Join(msgs, "; "))
}

// NormalizeEmail trims and lowercases an address before storage or comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidURL accepts an empty value, an absolute http(s) URL or a site relative path.
func ValidURL(u string) bool {
	return u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "/")
}

func validAbsoluteOrRelative(p string) bool {
	return strings.HasPrefix(p, "/") || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

func (v *Validator) requiredText(mode Mode, f Field[string], field, label string) {
	switch {
	case mode == Create && !f.Present():
		v.Add(field, label+" is required")
	case f.Set && strings.TrimSpace(f.Value) == "":
		if mode == Create {
			v.Add(field, label+" is required")
		} else {
			v.Add(field, label+" cannot be empty")
		}
	}
}

func (v *Validator) requiredID(mode Mode, f Field[uint], field, label string) {
	if (mode == Create && !f.Present()) || (f.Set && f.Value == 0) {
		v.Add(field, label+" is required")
	}
}

func (v *Validator) url(f Field[string], field, label string) {
	if f.Present() {
		v.Check(ValidURL(strings.TrimSpace(f.Value)), field, label+" must be a valid URL")
	}
}

// resolveSlug picks the explicit slug when given, else derives it from the fallback text.
// On update the slug only changes when the slug key was sent.
func (v *Validator) resolveSlug(mode Mode, slug, from Field[string]) (string, bool) {
	if mode == Update && !slug.Set {
		return "", false
	}
	source := strings.TrimSpace(slug.Value)
	if source == "" {
		if !from.Present() {
			if mode == Update {
				v.Add("slug", "Slug cannot be empty")
			}
			return "", false
		}
		source = from.Value
	}
	s := NormalizeSlug(source)
	if s == "" {
		v.Add("slug", "Slug must contain at least one letter or number")
		return "", false
	}
	return s, true
}

func text(f Field[string]) string {
	return strings.TrimSpace(f.Value)
}

func optionalText(f Field[string]) *string {
	if !f.Present() {
		return nil
	}
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return nil
	}
	return &s
}

func list(f Field[StringList]) datatypes.JSONSlice[string] {
	if !f.Present() || f.Value == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](f.Value)
}

func flag(f Field[Truthy]) models.Flag {
	return models.Flag(f.Present() && bool(f.Value))
}

// changeSet collects column assignments for keys present in a patch.
type changeSet map[string]any

func (c changeSet) text(col string, f Field[string]) {
	if f.Set {
		c[col] = text(f)
	}
}

func (c changeSet) optional(col string, f Field[string]) {
	if f.Set {
		c[col] = optionalText(f)
	}
}

func (c changeSet) list(col string, f Field[StringList]) {
	if f.Set {
		c[col] = list(f)
	}
}

func (c changeSet) flag(col string, f Field[Truthy]) {
	if f.Set {
		c[col] = flag(f)
	}
}

func (c changeSet) touch(now time.Time) map[string]any {
	c["updated_at"] = now
	return c
}
