package container

import (
	"context"
	"log"
	"net/http"

	"github.com/saulo-duarte/quizforge-lambda/internal/aiquiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/analysis"
	"github.com/saulo-duarte/quizforge-lambda/internal/auth"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	"github.com/saulo-duarte/quizforge-lambda/internal/response"
	"github.com/saulo-duarte/quizforge-lambda/internal/router"
	"github.com/saulo-duarte/quizforge-lambda/internal/storage"
	util "github.com/saulo-duarte/quizforge-lambda/internal/utils"
	"gorm.io/gorm"
)

type Container struct {
	QuizContainer     *quiz.QuizContainer
	AIQuizContainer   *aiquiz.AIQuizContainer
	ResponseContainer *response.ResponseContainer
	AnalysisContainer *analysis.AnalysisContainer
	AuthHandler       *auth.Handler
}

type repositories struct {
	quizzes   quiz.QuizRepository
	responses response.ResponseRepository
	analyses  analysis.AnalysisRepository
	gate      ratelimit.Gate
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	ctx := context.Background()
	logger := config.WithContext(ctx)

	if err := util.SetLocation(config.App.TimeZone); err != nil {
		logger.WithError(err).Warn("Falling back to the default time zone")
	}

	repos := newRepositories(ctx)

	model := llm.Unavailable()
	if config.App.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, config.App.GeminiAPIKey, config.App.GeminiModel)
		if err != nil {
			log.Fatalf("failed to create language model client: %v", err)
		}
		model = client
	} else {
		logger.Warn("GEMINI_API_KEY not set, generation endpoints will fail")
	}
	store := storage.NewDiskStore(config.App.StorageDir)

	quizContainer := quiz.NewQuizContainer(repos.quizzes, repos.gate, repos.responses)
	responseContainer := response.NewResponseContainer(repos.responses, quizContainer, config.App.SessionGrace)
	aiQuizContainer := aiquiz.NewAIQuizContainer(quizContainer, repos.gate, model, store)
	analysisContainer := analysis.NewAnalysisContainer(repos.analyses, quizContainer, responseContainer, repos.gate, model)

	return &Container{
		QuizContainer:     quizContainer,
		AIQuizContainer:   aiQuizContainer,
		ResponseContainer: responseContainer,
		AnalysisContainer: analysisContainer,
		AuthHandler:       auth.NewHandler(config.App.CookieDomain),
	}
}

func newRepositories(ctx context.Context) repositories {
	logger := config.WithContext(ctx)

	if config.App.DatabaseDSN == "" {
		logger.Warn("DATABASE_DSN not set, using in-memory stores")
		analyses := analysis.NewMemoryRepository()
		return repositories{
			quizzes:   quiz.NewMemoryRepository(analysis.ForgetQuiz(analyses)),
			responses: response.NewMemoryRepository(),
			analyses:  analyses,
			gate:      ratelimit.NewMemoryGate(ratelimit.DefaultPolicies),
		}
	}

	if err := config.Connect(ctx, config.App.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := migrate(config.DB); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	var gate ratelimit.Gate
	switch config.App.RateLimitBackend {
	case "postgres":
		gate = ratelimit.NewPostgresGate(config.DB, ratelimit.DefaultPolicies)
	default:
		gate = ratelimit.NewMemoryGate(ratelimit.DefaultPolicies)
	}

	return repositories{
		quizzes:   quiz.NewRepository(config.DB),
		responses: response.NewRepository(config.DB),
		analyses:  analysis.NewRepository(config.DB),
		gate:      gate,
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&quiz.Quiz{},
		&quiz.Question{},
		&response.Response{},
		&analysis.Analysis{},
		&ratelimit.Bucket{},
	)
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		AuthHandler:     c.AuthHandler,
		QuizHandler:     c.QuizContainer.Handler,
		AIQuizHandler:   c.AIQuizContainer.Handler,
		ResponseHandler: c.ResponseContainer.Handler,
		AnalysisHandler: c.AnalysisContainer.Handler,
	})
}
