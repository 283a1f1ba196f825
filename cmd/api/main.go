package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/api/handlers"
	"github.com/phaniteluguti/Edutech-mvp/internal/cache/redis"
	"github.com/phaniteluguti/Edutech-mvp/internal/generator"
	"github.com/phaniteluguti/Edutech-mvp/internal/llm"
	"github.com/phaniteluguti/Edutech-mvp/internal/metrics"
	"github.com/phaniteluguti/Edutech-mvp/internal/middleware/ratelimit"
	"github.com/phaniteluguti/Edutech-mvp/internal/parser"
	"github.com/phaniteluguti/Edutech-mvp/internal/patterns"
	"github.com/phaniteluguti/Edutech-mvp/internal/prompt"
	"github.com/phaniteluguti/Edutech-mvp/internal/scraper"
	"github.com/phaniteluguti/Edutech-mvp/internal/similarity"
	"github.com/phaniteluguti/Edutech-mvp/pkg/config"
	appLogger "github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Edutech question service")

	metrics.Init()

	var provider generator.CompletionProvider
	var checker *similarity.Checker

	if cfg.AzureAI.Configured() {
		llmClient, err := llm.NewClient(cfg.AzureAI)
		if err != nil {
			appLogger.Fatal("Failed to create Azure OpenAI client", zap.Error(err))
		}
		provider = llmClient

		checker = similarity.NewChecker(llmClient,
			cfg.Generation.MaxSimilarityThreshold,
			cfg.Generation.MinSimilarityThreshold,
		)

		if cfg.Redis.Enabled {
			redisClient, err := redis.NewClient(
				cfg.Redis.Host,
				cfg.Redis.Port,
				cfg.Redis.Password,
				cfg.Redis.DB,
			)
			if err != nil {
				appLogger.Warn("Redis unavailable, embedding cache disabled", zap.Error(err))
			} else {
				defer redisClient.Close()
				checker = checker.WithCache(redisClient)
			}
		}
	} else {
		appLogger.Warn("Azure OpenAI credentials not set, generation endpoints will be unavailable")
	}

	var originality generator.OriginalityChecker
	if checker != nil {
		originality = checker
	}

	gen := generator.New(provider, originality, prompt.New(), cfg.Generation)
	questionParser := parser.New()
	analyzer := patterns.New()
	docScraper := scraper.New(scraper.NewExtractor(cfg.Scraper))

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	generateHandler := handlers.NewGenerateHandler(gen)
	scrapeHandler := handlers.NewScrapeHandler(docScraper, questionParser)
	patternHandler := handlers.NewPatternHandler(analyzer)
	similarityHandler := handlers.NewSimilarityHandler(checker)

	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: 30})
	defer limiter.Stop()

	api := app.Group("/api/v1")

	generate := api.Group("/generate", limiter.Middleware())
	generate.Post("/single", generateHandler.GenerateSingle)
	generate.Post("/batch", generateHandler.GenerateBatch)
	generate.Post("/validate", generateHandler.ValidateQuestion)

	api.Post("/scrape/pdf", scrapeHandler.ScrapePDF)
	api.Post("/scrape/html", scrapeHandler.ScrapeHTML)
	api.Post("/scrape/url", scrapeHandler.ScrapeURL)

	api.Post("/patterns/report", patternHandler.GenerateReport)
	api.Post("/patterns/frequency", patternHandler.QuestionFrequency)

	api.Post("/similarity/originality", similarityHandler.CheckOriginality)
	api.Post("/similarity/search", similarityHandler.FindSimilar)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":               "ready",
			"generation_available": provider != nil,
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
