package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dataquill/bq-agent/pkg/audit"
	"github.com/dataquill/bq-agent/pkg/config"
	"github.com/dataquill/bq-agent/pkg/handlers"
	"github.com/dataquill/bq-agent/pkg/llm"
	"github.com/dataquill/bq-agent/pkg/logging"
	"github.com/dataquill/bq-agent/pkg/mcp"
	mcptools "github.com/dataquill/bq-agent/pkg/mcp/tools"
	"github.com/dataquill/bq-agent/pkg/prompts"
	"github.com/dataquill/bq-agent/pkg/services"
	"github.com/dataquill/bq-agent/pkg/tools"
	"github.com/dataquill/bq-agent/pkg/warehouse"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Secrets come from the environment; a local .env is a convenience.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		printBanner(cfg)
		return
	}

	wh, err := warehouse.NewBigQuery(&cfg.BigQuery, logger)
	if err != nil {
		logger.Fatal("failed to open warehouse connection", zap.Error(err))
	}
	defer func() { _ = wh.Close() }()

	schema := prompts.SchemaContext{
		ProjectID: cfg.BigQuery.ProjectID,
		DatasetID: cfg.BigQuery.DatasetID,
		TableID:   cfg.BigQuery.TableID,
	}

	registry := tools.NewRegistry(wh, audit.NewSecurityAuditor(logger), logger)

	// Without a model credential the agent still works, answering through
	// the deterministic fallback path.
	var client llm.Client
	var engine services.DecisionEngine
	if cfg.HasModelCredentials() {
		client, err = llm.NewFromConfig(cfg, logger)
		if err != nil {
			logger.Fatal("failed to create model client", zap.Error(err))
		}
		engine = services.NewDecisionEngine(client, schema, logger)
	} else {
		logger.Warn("no model credential configured, running with fallback responses only")
	}

	agent := services.NewAgent(
		engine,
		registry,
		services.NewResultFormatter(logger),
		services.NewFallbackResponder(wh, schema, logger),
		logger,
	)
	planner := services.NewPlanner(agent, client, cfg, logger)

	if os.Args[1] == "serve" {
		serve(cfg, registry, logger)
		return
	}

	query := strings.Join(os.Args[1:], " ")
	fmt.Println(planner.Answer(context.Background(), query))
}

// serve runs the MCP HTTP front end alongside plain health endpoints.
func serve(cfg *config.Config, registry *tools.Registry, logger *zap.Logger) {
	mcpServer := mcp.NewServer(cfg.AgentName, cfg.Version, logger)

	mcptools.RegisterHealthTool(mcpServer.MCP(), cfg.Version)
	mcptools.RegisterBigQueryTools(mcpServer.MCP(), &mcptools.BigQueryToolDeps{
		Registry: registry,
		Logger:   logger,
	})

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	mux.Handle("/mcp", mcpServer.NewStreamableHTTPServer())

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting MCP server",
		zap.String("addr", addr),
		zap.String("agent", cfg.AgentName),
		zap.String("version", cfg.Version))

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("BigQuery Analytics Agent (%s) using %s\n", cfg.AgentName, cfg.ModelName())
	fmt.Printf("Target: %s.%s.%s\n", cfg.BigQuery.ProjectID, cfg.BigQuery.DatasetID, cfg.BigQuery.TableID)
	fmt.Println("Usage: bq-agent 'Your question here'")
	fmt.Println("       bq-agent serve")
	fmt.Println("For full LLM capabilities, ensure your provider API key is set in .env")
}
