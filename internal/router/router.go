package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sarthology/dailysage-backend/internal/handlers"
	"github.com/sarthology/dailysage-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)

	dh := handlers.NewDashboardHandlers(deps)
	ch := handlers.NewChatHandlers(deps)
	hh := handlers.NewHistoryHandlers(deps)
	cth := handlers.NewContentHandlers(deps)
	ush := handlers.NewUserHandlers(deps)

	auth := middleware.NewMiddleware(deps.Firebase)
	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)

		r.Mount("/dashboard", dh.DashboardRoutes())
		r.Mount("/chat", ch.ChatRoutes())
		r.Mount("/credits", ch.CreditRoutes())
		r.Mount("/history", hh.HistoryRoutes())
		r.Mount("/users", ush.UserRoutes())
		r.Post("/journal", cth.CreateJournalEntry)
		r.Post("/moods", cth.LogMood)
	})

	return r
}
