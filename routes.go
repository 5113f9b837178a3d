package main

import (
	"fmt"
	"net/http"
	"path/filepath"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/movievault-go/apperror"
	"github.com/user/movievault-go/auth"
	"github.com/user/movievault-go/config"
	_ "github.com/user/movievault-go/docs" // registers the Swagger document
	"github.com/user/movievault-go/logutil"
	"github.com/user/movievault-go/metrics"
	"github.com/user/movievault-go/movies"
	"github.com/user/movievault-go/users"
)

const welcomeText = "Classic Movies of all Time!"

// routerDeps are the already built services the router dispatches to.
type routerDeps struct {
	server  *config.ServerConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
	auth    *auth.AuthService
	users   *users.UserHandlers
	movies  *movies.Handlers
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logutil.RequestLogger(d.logger))
	r.Use(recoverer)
	r.Use(middleware.Timeout(d.server.RequestTimeout))
	r.Use(d.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, welcomeText)
	})
	r.Get("/documentation", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(d.server.PublicDir, "documentation.html"))
	})
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(d.server.PublicDir))))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", d.metrics.Handler())

	r.Post("/login", auth.NewHandlers(d.auth).HandleLogin())
	d.users.RegisterRoutes(r, d.auth)
	d.movies.RegisterRoutes(r, d.auth)

	return r
}

// recoverer turns a handler panic into the standard JSON 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				log := logutil.GetOrDefault(r.Context())
				log.Error().Interface("panic", rvr).Bytes("stack", debug.Stack()).Msg("handler panicked")
				apperror.WriteError(w, apperror.NewInternalError("internal server error", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
