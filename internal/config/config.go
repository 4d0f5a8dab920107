package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	StaticRoot         string // root of the per-turn shared artifact folders
	AnsweredTopic      string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	JinaReranker string
	JwtSecret    string
}

type AIConfig struct {
	OllamaBaseURL   string
	OllamaLLMModel  string
	OllamaEmbdModel string
	RerankBaseURL   string
	RerankModel     string
	HistoryLimit    int
	RetrievalTopK   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			StaticRoot:         getEnv("STATIC_ROOT", "static"),
			AnsweredTopic:      getEnv("TURN_ANSWERED_TOPIC_NAME", "CHAT_TURN_ANSWERED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			JinaReranker: getEnv("JINA_API_KEY", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaLLMModel:  getEnv("LLM_MODEL", "llama3"),
			OllamaEmbdModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			RerankBaseURL:   getEnv("RERANK_BASE_URL", "https://api.jina.ai/v1/rerank"),
			RerankModel:     getEnv("RERANK_MODEL", "jina-reranker-v2-base-multilingual"),
			HistoryLimit:    getEnvAsInt("HISTORY_LIMIT", 2),
			RetrievalTopK:   getEnvAsInt("RETRIEVAL_TOP_K", 5),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
