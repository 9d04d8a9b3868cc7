package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"astromind/internal/chunker"
	"astromind/internal/config"
	"astromind/internal/domain"
	"astromind/internal/embedding/hashing"
	"astromind/internal/embedding/openai"
	"astromind/internal/llm"
	"astromind/internal/logger"
	"astromind/internal/pipeline"
	"astromind/internal/service"
	"astromind/internal/tui"
	"astromind/internal/vectorstore/memory"
	"astromind/internal/vectorstore/milvus"
	"astromind/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath string
		force   bool
		ask     string
		debug   bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/astromind/config.yaml if not provided)")
	flag.BoolVar(&force, "force", false, "Drop and rebuild existing collections before ingesting")
	flag.StringVar(&ask, "ask", "", "Answer a single question and exit instead of starting the TUI")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	logger.Init(debug)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	emb, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("vector store init failed: %v", err)
	}
	defer store.Close()

	// The CLI flag forces a rebuild for this run on top of the config.
	force = force || cfg.Ingest.Force

	// Ingest every entity kind into its own collection.
	profiles := []chunker.Profile{
		chunker.ShipProfile(),
		chunker.WeaponProfile(),
		chunker.EquipmentProfile(),
		chunker.EngineeringProfile(),
	}
	collections := make([]string, 0, len(profiles))
	for _, profile := range profiles {
		p := pipeline.New(profile, emb, store)
		p.Force = force
		if err := p.Run(ctx, cfg.Dataset.Dir(profile.EntityType)); err != nil {
			log.Fatalf("ingestion of %s failed: %v", profile.EntityType, err)
		}
		collections = append(collections, p.Collection)
	}

	llmClient, err := llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Model:     cfg.LLM.Model,
		Timeout:   time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("llm init failed: %v", err)
	}

	retriever := service.NewRetriever(emb, store, collections, cfg.Retrieval.TopK)
	answers := service.NewAnswerService(retriever, llmClient)

	if ask != "" {
		answer, err := answers.Ask(ctx, ask)
		if err != nil {
			log.Fatalf("ask failed: %v", err)
		}
		fmt.Println(answer)
		return
	}

	m := tui.New(answers)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func buildEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "hashing", "":
		dim := hashing.DefaultDimension
		if cfg.Embedder.Hashing != nil && cfg.Embedder.Hashing.Dimension > 0 {
			dim = cfg.Embedder.Hashing.Dimension
		}
		return hashing.NewEmbedder(dim), nil
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func buildStore(ctx context.Context, cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:     cfg.VectorStore.Qdrant.URL,
			APIKey:  cfg.VectorStore.Qdrant.APIKey,
			Timeout: time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	case "milvus":
		if cfg.VectorStore.Milvus == nil {
			return nil, fmt.Errorf("milvus config missing")
		}
		return milvus.NewStorage(ctx, milvus.Config{Address: cfg.VectorStore.Milvus.Address})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}
