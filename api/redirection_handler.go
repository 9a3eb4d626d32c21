package api

import (
	"net/http"
	"time"

	"github.com/rankforge/site-backend/content"
	"github.com/rankforge/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type redirectionHandler struct {
	responder    Responder
	logger       zerolog.Logger
	redirections RedirectionStore
	now          func() time.Time
}

func newRedirectionHandler(redirections RedirectionStore, now func() time.Time) redirectionHandler {
	logger := log.With().Str("handlerName", "redirectionHandler").Logger()

	return redirectionHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		redirections: redirections,
		now:          now,
	}
}

func (h redirectionHandler) getAllRedirections() http.HandlerFunc {
	return h.responder.Handle("list redirections", func(r *http.Request) (Result, error) {
		redirections, err := h.redirections.FindAll(r.Context())
		if err != nil {
			return Result{}, errs.NewDatabaseError("list", "redirection", err)
		}
		return OK(redirections), nil
	})
}

// createRedirection creates a redirection. The status code defaults to 301.
// @Summary Create a redirection
// @Tags Redirections
// @Accept json
// @Produce json
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/redirections [post]
func (h redirectionHandler) createRedirection() http.HandlerFunc {
	return h.responder.Handle("create redirection", func(r *http.Request) (Result, error) {
		var in content.RedirectionInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		redirection, err := in.Redirection(h.now())
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if err := content.EnsureUnique(ctx, "redirection", "from_path", redirection.FromPath, 0, h.redirections.FromPathTaken); err != nil {
			return Result{}, err
		}
		if err := h.redirections.Add(ctx, &redirection); err != nil {
			return Result{}, errs.NewDatabaseError("create", "redirection", err)
		}

		h.logger.Info().Uint("id", redirection.ID).Str("from", redirection.FromPath).Str("to", redirection.ToPath).Msg("redirection created")
		return Created(redirection, "Redirection created successfully"), nil
	})
}

// updateRedirection takes the id from the path or from the id query parameter.
func (h redirectionHandler) updateRedirection() http.HandlerFunc {
	return h.responder.Handle("update redirection", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		ctx := r.Context()
		if _, err := h.redirections.FindByID(ctx, id); err != nil {
			return Result{}, errs.NewDatabaseError("find", "redirection", err)
		}

		var in content.RedirectionInput
		if err := decodeJSON(r, &in); err != nil {
			return Result{}, err
		}
		changes, err := in.Changes(h.now())
		if err != nil {
			return Result{}, err
		}
		if from, ok := changes["from_path"].(string); ok {
			if err := content.EnsureUnique(ctx, "redirection", "from_path", from, id, h.redirections.FromPathTaken); err != nil {
				return Result{}, err
			}
		}
		if err := h.redirections.Update(ctx, id, changes); err != nil {
			return Result{}, errs.NewDatabaseError("update", "redirection", err)
		}

		redirection, err := h.redirections.FindByID(ctx, id)
		if err != nil {
			return Result{}, errs.NewDatabaseError("reload", "redirection", err)
		}
		return Updated(redirection, "Redirection updated successfully"), nil
	})
}

func (h redirectionHandler) deleteRedirection() http.HandlerFunc {
	return h.responder.Handle("delete redirection", func(r *http.Request) (Result, error) {
		id, err := pathID(r)
		if err != nil {
			return Result{}, err
		}
		if err := h.redirections.Delete(r.Context(), id); err != nil {
			return Result{}, errs.NewDatabaseError("delete", "redirection", err)
		}

		h.logger.Info().Uint("id", id).Msg("redirection deleted")
		return Deleted("Redirection deleted successfully"), nil
	})
}
