package server

import (
	"context"
	"net/http"
	"time"

	"weekly-planner/internal/app"
	"weekly-planner/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Server exposes the planner over HTTP for the browser UI.
type Server struct {
	app     *app.App
	metrics *metrics.Store
	dbPath  string
	httpSrv *http.Server
}

// New builds the Server and its router.
func New(addr string, application *app.App, metricsStore *metrics.Store, dbPath string, corsOrigins []string) *Server {
	s := &Server{
		app:     application,
		metrics: metricsStore,
		dbPath:  dbPath,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(3 * time.Minute))

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/usage", s.handleUsage)

		r.Route("/week", func(r chi.Router) {
			r.Get("/", s.handleGetWeek)
			r.Get("/display", s.handleGetWeekDisplay)
			r.Put("/notes", s.handleSetNotes)
			r.Post("/generate", s.handleGenerateWeek)

			r.Route("/meals/{dayIdx}", func(r chi.Router) {
				r.Post("/", s.handleAddMeal)
				r.Route("/{mealIdx}", func(r chi.Router) {
					r.Delete("/", s.handleRemoveMeal)
					r.Post("/move", s.handleMoveMeal)
					r.Route("/submeals", func(r chi.Router) {
						r.Post("/", s.handleAddSubMeal)
						r.Post("/move", s.handleMoveSubMeal)
						r.Route("/{subMealID}", func(r chi.Router) {
							r.Put("/", s.handleRenameSubMeal)
							r.Delete("/", s.handleRemoveSubMeal)
							r.Put("/dish", s.handleAssignDish)
							r.Delete("/dish", s.handleRemoveDish)
						})
					})
				})
			})
		})

		r.Get("/grocery-list", s.handleGroceryList)

		r.Route("/weeks", func(r chi.Router) {
			r.Get("/", s.handleListWeeks)
			r.Post("/", s.handleSaveWeek)
			r.Post("/import", s.handleImportWeeks)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", s.handleOverwriteWeek)
				r.Post("/load", s.handleLoadWeek)
				r.Delete("/", s.handleDeleteWeek)
			})
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.handleListRecipes)
			r.Post("/", s.handleSaveRecipe)
			r.Post("/import", s.handleImportRecipes)
			r.Post("/clip", s.handleClipRecipe)
			r.Delete("/{id}", s.handleDeleteRecipe)
		})

		r.Route("/rules", func(r chi.Router) {
			r.Get("/", s.handleListRules)
			r.Post("/", s.handleSaveRule)
			r.Post("/import", s.handleImportRules)
			r.Delete("/{id}", s.handleDeleteRule)
		})
		r.Route("/rule-categories", func(r chi.Router) {
			r.Get("/", s.handleListRuleCategories)
			r.Post("/", s.handleSaveRuleCategory)
			r.Delete("/{id}", s.handleDeleteRuleCategory)
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/dishes", s.handleSuggestDishes)
			r.Get("/sections", s.handleSectionSuggestions)
			r.Get("/meals/{dayIdx}", s.handleMealSuggestions)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/theme", s.handleGetTheme)
			r.Put("/theme", s.handleSetTheme)
			r.Get("/hidden-days", s.handleGetHiddenDays)
			r.Put("/hidden-days", s.handleSetHiddenDays)
			r.Get("/dish-categories", s.handleGetDishCategories)
			r.Put("/dish-categories", s.handleSetDishCategories)
		})
	})

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
