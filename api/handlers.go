package api

import (
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time, secureCookies bool) *routeHandlers {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &routeHandlers{
		articleHandler:     newArticleHandler(deps.Articles, deps.Authors, deps.Categories, now),
		authorHandler:      newAuthorHandler(deps.Authors, deps.Articles, now),
		categoryHandler:    newCategoryHandler(deps.Categories, deps.Articles, now),
		imageHandler:       newImageHandler(deps.Images, deps.Media, now),
		redirectionHandler: newRedirectionHandler(deps.Redirections, now),
		authHandler:        newAuthHandler(deps.Tokens, deps.Credentials, secureCookies),
		publicHandler:      newPublicHandler(deps, startupTime),
	}
}
