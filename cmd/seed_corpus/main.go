package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"ai-policyassist-be/internal/config"
	"ai-policyassist-be/internal/entity"
	"ai-policyassist-be/internal/repository/unitofwork"
	"ai-policyassist-be/pkg/database"
	"ai-policyassist-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// seedChunk mirrors the corpus fixture format: one entry per document chunk,
// metadata already normalized to lowercase.
type seedChunk struct {
	Content string `json:"content"`
	Topic   string `json:"topic"`
	Country string `json:"country"`
	Source  string `json:"source"`
}

func main() {
	fixturePath := flag.String("corpus", "corpus.json", "path to the corpus fixture file")
	batchSize := flag.Int("batch", 50, "chunks per insert batch")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		color.Red("Failed to read corpus fixture: %v", err)
		os.Exit(1)
	}

	var seeds []seedChunk
	if err := json.Unmarshal(raw, &seeds); err != nil {
		color.Red("Failed to parse corpus fixture: %v", err)
		os.Exit(1)
	}
	if len(seeds) == 0 {
		color.Yellow("Corpus fixture is empty, nothing to seed")
		return
	}

	color.Cyan("🌱 Seeding %d corpus chunks from %s\n", len(seeds), *fixturePath)

	embedder := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbdModel)
	uow := unitofwork.NewUnitOfWork(db)

	ctx := context.Background()
	inserted := 0
	for start := 0; start < len(seeds); start += *batchSize {
		end := start + *batchSize
		if end > len(seeds) {
			end = len(seeds)
		}
		batch := seeds[start:end]

		chunks := make([]*entity.DocumentChunk, 0, len(batch))
		vectors := make([][]float32, 0, len(batch))
		for _, s := range batch {
			resp, err := embedder.Generate(s.Content, "RETRIEVAL_DOCUMENT")
			if err != nil {
				color.Red("Embedding failed for chunk %d: %v", inserted+len(chunks), err)
				os.Exit(1)
			}
			chunks = append(chunks, &entity.DocumentChunk{
				Id:      uuid.New(),
				Content: s.Content,
				Topic:   strings.ToLower(s.Topic),
				Country: strings.ToLower(s.Country),
				Source:  s.Source,
			})
			vectors = append(vectors, resp.Embedding.Values)
		}

		if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, chunks, vectors); err != nil {
			color.Red("Insert failed at batch starting %d: %v", start, err)
			os.Exit(1)
		}
		inserted += len(chunks)
		color.Green("Inserted %d/%d chunks", inserted, len(seeds))
	}

	color.Cyan("\n✅ Corpus seeding complete")
}
