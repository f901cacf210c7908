package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/quizforge-lambda/internal/aiquiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/analysis"
	"github.com/saulo-duarte/quizforge-lambda/internal/auth"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/middlewares"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/response"
)

type RouterConfig struct {
	AuthHandler     *auth.Handler
	QuizHandler     *quiz.Handler
	AIQuizHandler   *aiquiz.Handler
	ResponseHandler *response.Handler
	AnalysisHandler *analysis.Handler
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Route("/f/{slug}", func(r chi.Router) {
		r.Use(auth.OptionalAuth)

		quiz.PublicRoutes(r, cfg.QuizHandler)
		response.PublicRoutes(r, cfg.ResponseHandler)
	})

	r.Route("/quizzes", func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		quiz.Routes(r, cfg.QuizHandler)
		aiquiz.Routes(r, cfg.AIQuizHandler)
		response.Routes(r, cfg.ResponseHandler)
		analysis.Routes(r, cfg.AnalysisHandler)
	})
	return r
}
