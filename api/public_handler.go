package api

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/rankforge/site-backend/content"
	"github.com/rankforge/site-backend/errs"
	"github.com/rankforge/site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

type publicHandler struct {
	responder    Responder
	logger       zerolog.Logger
	redirections RedirectionStore
	pinger       Pinger
	mailer       Mailer
	recaptcha    CaptchaVerifier
	sms          Notifier
	metaTags     MetaTagSuggester
	recipients   []string
	timeout      time.Duration
	startupTime  time.Time
}

func newPublicHandler(deps Dependencies, startupTime time.Time) publicHandler {
	logger := log.With().Str("handlerName", "publicHandler").Logger()

	timeout := deps.OutboundTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return publicHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		redirections: deps.Redirections,
		pinger:       deps.Health,
		mailer:       deps.Mailer,
		recaptcha:    deps.Recaptcha,
		sms:          deps.SMS,
		metaTags:     deps.MetaTags,
		recipients:   deps.Recipients,
		timeout:      timeout,
		startupTime:  startupTime,
	}
}

type contactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptcha_token"`
}

func (c *contactRequest) validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = content.NormalizeEmail(c.Email)
	c.Message = strings.TrimSpace(c.Message)

	v := &content.Validator{}
	v.Check(c.Name != "", "name", "Name is required")
	if c.Email == "" {
		v.Add("email", "Email is required")
	} else {
		v.Check(content.ValidEmail(c.Email), "email", "Invalid email format")
	}
	v.Check(c.Message != "", "message", "Message is required")
	return v.Err()
}

type newsletterRequest struct {
	Email          string `json:"email"`
	RecaptchaToken string `json:"recaptcha_token"`
}

type metaTagsRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

func (h publicHandler) verifyCaptcha(ctx context.Context, r *http.Request, token string) error {
	if h.recaptcha == nil {
		return nil
	}
	return h.recaptcha.Verify(ctx, token, clientIP(r))
}

func (h publicHandler) notify(ctx context.Context, email services.Email) error {
	if h.mailer == nil || len(h.recipients) == 0 {
		return errs.NewServiceNotConfiguredError("Email delivery")
	}
	email.To = h.recipients
	return h.mailer.Send(ctx, email)
}

// contact relays a contact form submission by e-mail and, when configured, by SMS
// @Summary Contact form
// @Tags Public
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "E-mail or captcha provider unavailable"
// @Router /api/contact [post]
func (h publicHandler) contact() http.HandlerFunc {
	return h.responder.Handle("contact", func(r *http.Request) (Result, error) {
		var req contactRequest
		if err := decodeJSON(r, &req); err != nil {
			return Result{}, err
		}
		if err := req.validate(); err != nil {
			return Result{}, err
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		if err := h.verifyCaptcha(ctx, r, req.RecaptchaToken); err != nil {
			return Result{}, err
		}
		if err := h.notify(ctx, contactEmail(req)); err != nil {
			return Result{}, err
		}
		if h.sms != nil {
			if err := h.sms.Notify(ctx, fmt.Sprintf("New contact from %s <%s>", req.Name, req.Email)); err != nil {
				h.logger.Warn().Err(err).Msg("contact SMS alert failed")
			}
		}

		h.logger.Info().Str("email", req.Email).Msg("contact form relayed")
		return Result{Status: http.StatusOK, Message: "Thank you! Your message has been sent."}, nil
	})
}

func contactEmail(req contactRequest) services.Email {
	rows := [][2]string{
		{"Name", req.Name},
		{"Email", req.Email},
		{"Phone", req.Phone},
		{"Company", req.Company},
		{"Website", req.Website},
	}
	var htmlBody, textBody strings.Builder
	htmlBody.WriteString("<h2>New contact form submission</h2>")
	for _, row := range rows {
		if strings.TrimSpace(row[1]) == "" {
			continue
		}
		fmt.Fprintf(&htmlBody, "<p><strong>%s:</strong> %s</p>", row[0], html.EscapeString(row[1]))
		fmt.Fprintf(&textBody, "%s: %s\n", row[0], row[1])
	}
	fmt.Fprintf(&htmlBody, "<p><strong>Message:</strong></p><p>%s</p>",
		strings.ReplaceAll(html.EscapeString(req.Message), "\n", "<br>"))
	fmt.Fprintf(&textBody, "\n%s\n", req.Message)

	return services.Email{
		Subject: "New contact form submission from " + req.Name,
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
		ReplyTo: req.Email,
	}
}

func (h publicHandler) newsletter() http.HandlerFunc {
	return h.responder.Handle("newsletter signup", func(r *http.Request) (Result, error) {
		var req newsletterRequest
		if err := decodeJSON(r, &req); err != nil {
			return Result{}, err
		}
		email := content.NormalizeEmail(req.Email)
		if email == "" {
			return Result{}, errs.NewValidationError("email", "Email is required")
		}
		if !content.ValidEmail(email) {
			return Result{}, errs.NewValidationError("email", "Invalid email format")
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		if err := h.verifyCaptcha(ctx, r, req.RecaptchaToken); err != nil {
			return Result{}, err
		}
		err := h.notify(ctx, services.Email{
			Subject: "New newsletter signup",
			HTML:    fmt.Sprintf("<p>New newsletter subscriber: <strong>%s</strong></p>", html.EscapeString(email)),
			Text:    "New newsletter subscriber: " + email,
			ReplyTo: email,
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Status: http.StatusOK, Message: "Thank you for subscribing!"}, nil
	})
}

// suggestMetaTags asks the language model for a meta title and description
// @Summary Meta tag suggestions
// @Tags Tools
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 429 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse "Generator not configured or unavailable"
// @Router /api/tools/meta-tags [post]
func (h publicHandler) suggestMetaTags() http.HandlerFunc {
	return h.responder.Handle("suggest meta tags", func(r *http.Request) (Result, error) {
		if h.metaTags == nil {
			return Result{}, errs.NewServiceNotConfiguredError("Meta tag generator")
		}
		var req metaTagsRequest
		if err := decodeJSON(r, &req); err != nil {
			return Result{}, err
		}
		req.Title = strings.TrimSpace(req.Title)
		req.Content = strings.TrimSpace(req.Content)
		if req.Title == "" && req.Content == "" {
			return Result{}, errs.NewValidationError("title", "Title or content is required")
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		tags, err := h.metaTags.Suggest(ctx, req.Title, req.Content, req.Keywords)
		if err != nil {
			return Result{}, errs.FromOutbound("Meta tag generator", err)
		}
		return OK(tags), nil
	})
}

// resolveRedirection looks up the redirection registered for the path query parameter.
func (h publicHandler) resolveRedirection() http.HandlerFunc {
	return h.responder.Handle("resolve redirection", func(r *http.Request) (Result, error) {
		path := strings.TrimSpace(r.URL.Query().Get("path"))
		if path == "" {
			return Result{}, errs.NewValidationError("path", "path is required")
		}
		redirection, err := h.redirections.FindByFromPath(r.Context(), content.NormalizePath(path))
		if err != nil {
			return Result{}, errs.NewDatabaseError("resolve", "redirection", err)
		}
		return OK(redirection), nil
	})
}

// HealthResponse reports liveness and database reachability.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Uptime    string    `json:"uptime"`
	StartedAt time.Time `json:"started_at"`
}

func (h publicHandler) health() http.HandlerFunc {
	return h.responder.Handle("health", func(r *http.Request) (Result, error) {
		res := HealthResponse{
			Status:    "ok",
			Database:  "ok",
			Uptime:    time.Since(h.startupTime).Round(time.Second).String(),
			StartedAt: h.startupTime.UTC(),
		}
		if h.pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := h.pinger.Ping(ctx); err != nil {
				return Result{}, errs.NewServiceUnavailableError("Database", err)
			}
		}
		return OK(res), nil
	})
}

// notFound applies a matching redirection to GET and HEAD requests and answers everything
// else with a 404 envelope.
func (h publicHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) && h.redirections != nil {
			redirection, err := h.redirections.FindByFromPath(r.Context(), content.NormalizePath(r.URL.Path))
			if err == nil {
				http.Redirect(w, r, redirection.ToPath, redirection.StatusCode)
				return
			}
			if apiErr := errs.NewDatabaseError("resolve", "redirection", err); !errs.IsNotFound(apiErr) {
				h.responder.WriteError(w, r, "resolve redirection", apiErr)
				return
			}
		}
		h.responder.WriteError(w, r, "route", errs.NewNotFoundError("Route not found"))
	}
}
