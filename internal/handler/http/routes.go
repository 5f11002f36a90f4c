package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(withGZip)

	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", h.health)

		// public routes: a valid session token refines the response
		// (own drafts, page ownership) but is not required
		api.Group(func(r chi.Router) {
			r.Use(h.authOptional)

			r.Get("/users/auth", h.oauthURL)
			r.Post("/users/exchange-token", h.exchangeToken)
			r.Get("/users/{username}", h.getUser)
			r.Get("/reviews/{username}", h.getReviewsForUser)
			r.Get("/reviews/{username}/reviewers", h.getReviewers)
		})

		// routes requiring authorization
		api.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Get("/users/search", h.searchUsers)
			r.Post("/users/{username}/refresh", h.refreshUser)

			r.Get("/account", h.getAccount)
			r.Delete("/account", h.deleteAccount)
			r.Get("/account/reviews", h.getMyReviews)
			r.Get("/account/feed", h.getActivityFeed)

			r.Post("/reviews", h.submitReview)
			r.Get("/reviews/suggestions", h.getSuggestions)
			r.Delete("/reviews/{username}", h.deleteReview)
			r.Patch("/reviews/{id}/visibility", h.toggleCommentHidden)

			r.Post("/watchlist", h.watch)
			r.Get("/watchlist", h.getWatchlist)
			r.Get("/watchlist/check/{username}", h.checkWatch)
			r.Delete("/watchlist/{username}", h.unwatch)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
