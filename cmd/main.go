package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/learnpath-backend/internal/catalog"
	redisclient "github.com/yungbote/learnpath-backend/internal/clients/redis"
	"github.com/yungbote/learnpath-backend/internal/embedding"
	"github.com/yungbote/learnpath-backend/internal/handlers"
	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/server"
	"github.com/yungbote/learnpath-backend/internal/services"
	"github.com/yungbote/learnpath-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	catalogPath := utils.GetEnv("CATALOG_PATH", "catalog.json", log)
	curatedPath := utils.GetEnv("CURATED_PLANS_PATH", "", log)
	signingSecret := utils.GetEnv("CREDENTIAL_SIGNING_SECRET", "", log)
	halfLife := utils.GetEnvAsFloat("RANK_HALF_LIFE_DAYS", services.DefaultHalfLifeDays, log)
	alpha := utils.GetEnvAsFloat("RANK_ALPHA", services.DefaultAlpha, log)
	topK := utils.GetEnvAsInt("RANK_TOP_K", services.DefaultTopK, log)
	planTimeout := utils.GetEnvAsInt("PLAN_TIMEOUT_SECONDS", 20, log)

	// Remote model client (optional: absence degrades to deterministic
	// embeddings and the curated/heuristic plan tiers)
	var openaiClient services.OpenAIClient
	if client, err := services.NewOpenAIClient(log); err != nil {
		log.Info("OpenAI client not configured, running with local fallbacks", "reason", err)
	} else {
		openaiClient = client
	}

	// Embedder: one shared value for catalog preparation and query time
	deterministic := embedding.NewDeterministic()
	var embedder embedding.Embedder = deterministic
	if openaiClient != nil {
		embedder = embedding.NewRemote(log, openaiClient, deterministic)
	}

	// Catalog
	log.Info("Loading catalog snapshot from main...")
	snapshot, err := catalog.LoadSnapshot(catalogPath, log)
	if err != nil {
		log.Error("Could not load catalog snapshot", "error", err)
		os.Exit(1)
	}
	prepared, err := catalog.PrepareEmbeddings(context.Background(), log, embedder, snapshot.Items())
	if err != nil {
		log.Error("Catalog embedding preparation failed", "error", err)
		os.Exit(1)
	}
	provider := catalog.NewSnapshot(prepared)

	// Curated plan table
	curated := services.DefaultCuratedTable()
	if curatedPath != "" {
		table, err := services.LoadCuratedTable(curatedPath)
		if err != nil {
			log.Warn("Could not load curated plan table, using built-in defaults", "error", err)
		} else {
			curated = table
		}
	}

	// Optional retrieval cache
	var cache redisclient.ResultCache
	if rc, err := redisclient.NewResultCache(log); err != nil {
		log.Info("Retrieval cache disabled", "reason", err)
	} else {
		cache = rc
		defer cache.Close()
	}

	// Services
	log.Info("Setting up Services from main...")
	ranker := services.NewRankerService(log, provider, embedder, services.RankerOptions{
		HalfLifeDays: halfLife,
		Alpha:        alpha,
		TopK:         topK,
	})
	planner := services.NewPlannerService(log, openaiClient, curated, time.Duration(planTimeout)*time.Second)
	credentials := services.NewCredentialService(log, signingSecret, nil)
	pipeline := services.NewPipelineService(log, ranker, planner, credentials, cache)

	// Handlers
	log.Info("Setting up handlers from main...")
	retrievalHandler := handlers.NewRetrievalHandler(log, pipeline)
	planHandler := handlers.NewPlanHandler(log, pipeline)
	credentialHandler := handlers.NewCredentialHandler(log, pipeline)
	pipelineHandler := handlers.NewPipelineHandler(log, pipeline)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:    server.ParseOrigins(utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),
		RetrievalHandler:  retrievalHandler,
		PlanHandler:       planHandler,
		CredentialHandler: credentialHandler,
		PipelineHandler:   pipelineHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
