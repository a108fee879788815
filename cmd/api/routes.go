package main

import (
	"context"
	"net/http"
	"time"

	"lendingapi/internal/application"
	"lendingapi/internal/auth"
	"lendingapi/internal/news"
	"lendingapi/internal/partner"
	"lendingapi/internal/session"
	"lendingapi/internal/smtpconfig"
	"lendingapi/internal/testimonial"
)

type handlers struct {
	auth         *auth.HTTPHandler
	sessions     *session.HTTPHandler
	applications *application.HTTPHandler
	news         *news.HTTPHandler
	testimonials *testimonial.HTTPHandler
	partners     *partner.HTTPHandler
	smtp         *smtpconfig.HTTPHandler
}

type middleware func(http.Handler) http.Handler

// newRouter registers every route. guard fronts /api/admin and the
// authenticated auth endpoints; limit fronts public writes.
func newRouter(h handlers, guard, limit middleware, ready func(context.Context) error) *http.ServeMux {
	router := http.NewServeMux()

	admin := func(f http.HandlerFunc) http.Handler { return guard(f) }
	public := func(f http.HandlerFunc) http.Handler { return limit(f) }

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("POST /api/auth/login", public(h.auth.Login))
	router.HandleFunc("POST /api/auth/logout", h.auth.Logout)
	router.Handle("GET /api/auth/me", admin(h.auth.Me))
	router.Handle("POST /api/auth/logout-all", admin(h.auth.LogoutAll))
	router.Handle("POST /api/auth/extend", admin(h.auth.Extend))

	router.Handle("GET /api/admin/sessions", admin(h.sessions.ListSessions))
	router.Handle("DELETE /api/admin/sessions/{id}", admin(h.sessions.DeleteSession))

	router.Handle("POST /api/applications", public(h.applications.Create))
	router.Handle("GET /api/admin/applications", admin(h.applications.List))
	router.Handle("GET /api/admin/applications/stats", admin(h.applications.Stats))
	router.Handle("GET /api/admin/applications/{id}", admin(h.applications.Get))
	router.Handle("PATCH /api/admin/applications/{id}/status", admin(h.applications.UpdateStatus))
	router.Handle("DELETE /api/admin/applications/{id}", admin(h.applications.Delete))

	router.HandleFunc("GET /api/news", h.news.ListPublished)
	router.HandleFunc("GET /api/news/{slug}", h.news.GetPublished)
	router.Handle("GET /api/admin/news", admin(h.news.List))
	router.Handle("POST /api/admin/news", admin(h.news.Create))
	router.Handle("GET /api/admin/news/{id}", admin(h.news.Get))
	router.Handle("PUT /api/admin/news/{id}", admin(h.news.Update))
	router.Handle("DELETE /api/admin/news/{id}", admin(h.news.Delete))

	router.HandleFunc("GET /api/testimonials", h.testimonials.ListActive)
	router.Handle("GET /api/admin/testimonials", admin(h.testimonials.List))
	router.Handle("POST /api/admin/testimonials", admin(h.testimonials.Create))
	router.Handle("GET /api/admin/testimonials/{id}", admin(h.testimonials.Get))
	router.Handle("PUT /api/admin/testimonials/{id}", admin(h.testimonials.Update))
	router.Handle("DELETE /api/admin/testimonials/{id}", admin(h.testimonials.Delete))

	router.HandleFunc("GET /api/partners", h.partners.ListActive)
	router.Handle("GET /api/admin/partners", admin(h.partners.List))
	router.Handle("POST /api/admin/partners", admin(h.partners.Create))
	router.Handle("GET /api/admin/partners/{id}", admin(h.partners.Get))
	router.Handle("PUT /api/admin/partners/{id}", admin(h.partners.Update))
	router.Handle("DELETE /api/admin/partners/{id}", admin(h.partners.Delete))

	router.Handle("GET /api/admin/smtp", admin(h.smtp.Get))
	router.Handle("PUT /api/admin/smtp", admin(h.smtp.Update))
	router.Handle("POST /api/admin/smtp/test", admin(h.smtp.SendTest))

	return router
}
