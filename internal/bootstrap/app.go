package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/analyses"
	googleauth "interview-backend/internal/auth"
	"interview-backend/internal/evaluation"
	"interview-backend/internal/interviews"
	"interview-backend/internal/llm"
	"interview-backend/internal/llm/gemini"
	"interview-backend/internal/llm/openai"
	"interview-backend/internal/questions"
	"interview-backend/internal/scoring"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/server"
	"interview-backend/internal/shared/storage/db"
	"interview-backend/internal/shared/storage/object"
	localstore "interview-backend/internal/shared/storage/object/local"
	s3store "interview-backend/internal/shared/storage/object/s3"
	"interview-backend/internal/shared/telemetry"
	"interview-backend/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	InterviewRepo interviews.InterviewRepo
	QuestionRepo  interviews.QuestionRepo
	UsersRepo     users.Repo

	Scorer             *scoring.Scorer
	QuestionsService   *questions.Service
	EvaluationService  *evaluation.Service
	AnalysesService    *analyses.Service
	InterviewsService  *interviews.Service
	UsersService       *users.Service
	GoogleAuth         *googleauth.GoogleService
	InterviewsHandler  *interviews.Handler
	QuestionsHandler   *questions.Handler
	EvaluationsHandler *evaluation.Handler
	AnalysesHandler    *analyses.Handler
	UsersHandler       *users.Handler
}

// Build wires storage, providers, services and routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	scorerCfg, err := scoring.LoadConfig(cfg.ScoringConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    NewLLMClient(ctx, cfg),
	}
	if cfg.ScoringJitter {
		app.Scorer = scoring.NewScorer(scorerCfg)
	} else {
		app.Scorer = scoring.NewScorer(scorerCfg, scoring.WithoutJitter())
	}

	buildServices(app)

	var ping func(context.Context) error
	if sqlDB != nil {
		ping = sqlDB.PingContext
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Interviews:  app.InterviewsHandler,
		Questions:   app.QuestionsHandler,
		Evaluations: app.EvaluationsHandler,
		Analyses:    app.AnalysesHandler,
		Users:       app.UsersHandler,
		GoogleAuth:  app.GoogleAuth,
		Ping:        ping,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"llm_provider":  cfg.LLMProvider,
		"llm_enabled":   llm.Configured(app.LLM),
		"database":      sqlDB != nil,
		"object_store":  cfg.ObjectStoreType,
		"google_login":  app.GoogleAuth.Configured(),
		"score_jitter":  cfg.ScoringJitter,
		"scoring_table": cfg.ScoringConfigPath,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Error("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// NewLLMClient never fails: a provider that cannot be constructed leaves the
// placeholder in place so generation and evaluation use their local fallbacks.
func NewLLMClient(ctx context.Context, cfg config.Config) llm.Client {
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case "openai":
		client, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	case "gemini":
		client, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return llm.PlaceholderClient{}
	}
	if err != nil {
		telemetry.Error("bootstrap.llm_unavailable", map[string]any{
			"provider": cfg.LLMProvider,
			"error":    err,
		})
		return llm.PlaceholderClient{}
	}
	return llm.WithRetry(client)
}

func buildServices(app *App) {
	if app.DB != nil {
		app.InterviewRepo = &interviews.PGInterviewRepo{DB: app.DB}
		app.QuestionRepo = &interviews.PGQuestionRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		interviewRepo, questionRepo := interviews.NewMemoryRepos()
		app.InterviewRepo = interviewRepo
		app.QuestionRepo = questionRepo
		app.UsersRepo = users.NewMemoryRepo()
	}

	app.QuestionsService = &questions.Service{LLM: app.LLM, Timeout: app.Config.LLMTimeout}
	app.EvaluationService = evaluation.NewService(app.LLM, evaluation.HeuristicEvaluator{Scorer: app.Scorer}, app.Config.LLMTimeout)
	app.AnalysesService = &analyses.Service{LLM: app.LLM, Timeout: app.Config.LLMTimeout}
	app.InterviewsService = &interviews.Service{
		Interviews: app.InterviewRepo,
		Questions:  app.QuestionRepo,
		Generator:  app.QuestionsService,
		Evaluator:  app.EvaluationService,
		Store:      app.Store,
	}
	app.UsersService = users.NewService(app.UsersRepo)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)

	app.InterviewsHandler = interviews.NewHandler(app.InterviewsService)
	app.QuestionsHandler = questions.NewHandler(app.QuestionsService)
	app.EvaluationsHandler = evaluation.NewHandler(app.EvaluationService)
	app.AnalysesHandler = analyses.NewHandler(app.AnalysesService)
	app.UsersHandler = users.NewHandler(app.UsersService)
}
