// Package main 博客运营后台服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-ops-api/internal/application/content"
	"blog-ops-api/internal/application/generation"
	"blog-ops-api/internal/application/publish"
	"blog-ops-api/internal/config"
	"blog-ops-api/internal/infrastructure/deploy"
	"blog-ops-api/internal/infrastructure/llm"
	"blog-ops-api/internal/infrastructure/persistence/postgres"
	"blog-ops-api/internal/infrastructure/persistence/redis"
	"blog-ops-api/internal/infrastructure/search"
	"blog-ops-api/internal/interfaces/http/handler"
	"blog-ops-api/internal/interfaces/http/router"
	"blog-ops-api/pkg/logger"
	"blog-ops-api/pkg/tracer"

	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting admin-api",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 存储层
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect postgres", err)
	}
	defer func() {
		if err := pgClient.Close(); err != nil {
			log.Error("failed to close postgres", "error", err)
		}
	}()

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to connect redis", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis", "error", err)
		}
	}()

	txManager := postgres.NewTxManager(pgClient)
	taxonomyRepo := postgres.NewTaxonomyRepository(pgClient)
	topicRepo := postgres.NewTopicRepository(pgClient)
	draftRepo := postgres.NewDraftRepository(pgClient)
	postRepo := postgres.NewPostRepository(pgClient)
	activityRepo := postgres.NewActivityRepository(pgClient)

	cache := redis.NewCache(redisClient)
	rateLimiter := redis.NewRateLimiter(redisClient)

	// LLM 后端与回退编排
	openRouter := llm.NewOpenRouterAdapter(&cfg.LLM.OpenRouter)
	adapters := map[string]llm.Adapter{
		llm.BackendOpenRouter: openRouter,
		llm.BackendGroq:       llm.NewGroqAdapter(&cfg.LLM.Groq),
		llm.BackendGemini:     llm.NewGeminiAdapter(&cfg.LLM.Gemini),
	}

	registry, err := generation.NewRegistry(cfg.LLM.Roles)
	if err != nil {
		logger.Fatal(ctx, "invalid llm role configuration", err)
	}

	orchestrator := generation.NewOrchestrator(registry, adapters, generation.Options{
		Bridge: generation.Candidate{
			Backend: cfg.LLM.Bridge.Backend,
			Model:   cfg.LLM.Bridge.Model,
		},
		Floor: generation.Candidate{
			Backend: cfg.LLM.Floor.Backend,
			Model:   cfg.LLM.Floor.Model,
		},
		Backoff:        cfg.LLM.RateLimitBackoff,
		MaxTokens:      cfg.LLM.MaxTokens,
		LightMaxTokens: cfg.LLM.LightMaxTokens,
	})

	linearPipeline := generation.NewLinearPipeline(orchestrator)
	consensusPipeline := generation.NewConsensusPipeline(
		orchestrator,
		openRouter,
		cfg.LLM.Verifier.PrimaryModel,
		cfg.LLM.Verifier.FallbackModel,
		cfg.LLM.MaxTokens,
	)

	// 应用服务
	taxonomyService := content.NewTaxonomyService(taxonomyRepo, topicRepo, cache)
	draftService := content.NewDraftService(draftRepo, topicRepo)
	postService := content.NewPostService(postRepo)
	activityService := content.NewActivityService(activityRepo)

	deployTrigger := deploy.NewWebhookTrigger(&cfg.Deploy)
	publisher := publish.NewPublisher(
		draftRepo, postRepo, topicRepo, activityRepo,
		txManager, redisClient, deployTrigger,
	)

	aggregator := search.NewAggregator(&cfg.Search)

	// 路由
	r := router.New(cfg, router.Handlers{
		Health:   handler.NewHealthHandler(pgClient, redisClient),
		Generate: handler.NewGenerateHandler(linearPipeline, consensusPipeline, draftService),
		Taxonomy: handler.NewTaxonomyHandler(taxonomyService),
		Draft:    handler.NewDraftHandler(draftService, publisher),
		Post:     handler.NewPostHandler(postService),
		Search:   handler.NewSearchHandler(aggregator, cache),
		Activity: handler.NewActivityHandler(activityService),
	}, rateLimiter)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
