package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rankforge/site-backend/auth"
	"github.com/rankforge/site-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies, c map[string]string) (Server, error) {
	if c == nil {
		c = config.New()
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 60)
	writeTimeout := config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 60)
	idleTimeout := config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 120)

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	// Forwarded client addresses are only honored behind a proxy that sets them.
	if config.GetBool(router.config, "TRUSTED_PROXY", false) {
		chiRouter.Use(middleware.RealIP)
	}
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware(accessLogger(router.config)))
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.GetList(router.config, "ACCEPTED_ORIGINS"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	chiRouter.Use(middleware.StripSlashes)

	secureCookies := config.GetString(router.config, "APP_ENV", "production") != "local"
	handlers := initializeHandlers(deps, router.startupTime, secureCookies)

	authMiddleware := newAuthMiddleware(deps.Authenticator)

	limits := routeLimits{
		login: auth.NewLimiter(time.Minute/time.Duration(max(1, config.GetInt(router.config, "LOGIN_RATE_PER_MINUTE", 5))), 5),
		tools: auth.NewLimiter(time.Minute/time.Duration(max(1, config.GetInt(router.config, "TOOLS_RATE_PER_MINUTE", 10))), 10),
	}

	if deps.UploadDir != "" {
		chiRouter.Handle("/uploads/*", uploadsHandler(deps.UploadDir))
	}

	setupAdminRoutes(chiRouter, handlers, authMiddleware, limits)
	setupPublicRoutes(chiRouter, handlers, limits)

	return chiRouter
}

// uploadsHandler serves stored media. Files are rendered sandboxed so an uploaded SVG
// cannot run script on the site's origin.
func uploadsHandler(dir string) http.Handler {
	files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}

// accessLogger writes colored console lines locally and JSON elsewhere.
func accessLogger(c map[string]string) zerolog.Logger {
	if config.GetString(c, "APP_ENV", "production") == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Str("component", "http").Logger()
	}
	return log.With().Str("component", "http").Logger()
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
