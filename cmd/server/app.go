package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/workshop-quotes/httpx"
	"github.com/diewo77/workshop-quotes/i18n"
	"github.com/diewo77/workshop-quotes/internal/handlers"
	"github.com/diewo77/workshop-quotes/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	quotes   *handlers.QuoteHandler
	settings *handlers.SettingsHandler
	uploads  string // LocalBucket dir, empty when logos live elsewhere
	log      logrus.FieldLogger
	handler  http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(quotes *handlers.QuoteHandler, settings *handlers.SettingsHandler, uploads string, log logrus.FieldLogger) *App {
	app := &App{
		mux:      http.NewServeMux(),
		quotes:   quotes,
		settings: settings,
		uploads:  uploads,
		log:      log,
	}
	app.setupRoutes()
	app.handler = chi.Chain(
		middleware.RequestID,
		middleware.RealIP,
		app.requestLogger,
		middleware.Recoverer,
		withLanguage,
	).Handler(app.mux)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	a.quotes.Register(a.mux)
	a.settings.Register(a.mux)

	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Old front-end paths.
	for _, legacy := range []string{"/budgets", "/budget"} {
		a.mux.HandleFunc(legacy, redirectLegacy(legacy))
		a.mux.HandleFunc(legacy+"/", redirectLegacy(legacy))
	}

	if a.uploads != "" {
		a.mux.Handle("GET "+storage.LocalPrefix+"/",
			http.StripPrefix(storage.LocalPrefix+"/", http.FileServer(http.Dir(a.uploads))))
	}
}

// redirectLegacy answers 308 so POST bodies survive the hop.
func redirectLegacy(prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := "/quotes" + strings.TrimPrefix(r.URL.Path, prefix)
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	}
}

// requestLogger logs one line per request with the chi request id.
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

// withLanguage picks the message language from ?lang, the lang cookie or
// Accept-Language, in that order. ?lang is remembered in the cookie.
func withLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := strings.ToLower(r.URL.Query().Get("lang")); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
