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
	Search   SearchConfig
	Agent    AgentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	IngestTopic  string // Embedding topic
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "openai"
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string // e.g. "gpt-4o-mini", "llama3"
	OllamaBaseURL     string
}

// SearchConfig holds the tuning knobs of the hybrid search pipeline.
type SearchConfig struct {
	MinSimilarity float64
	TopK          int
	MaxResults    int
	SKUPattern    string // empty picks the built-in default
}

// AgentConfig bounds the tool-calling conversation loop.
type AgentConfig struct {
	MaxIterations    int
	MaxToolCalls     int
	ToolTimeoutSec   int
	ModelRetries     int
	ConversationTTLM int // minutes the redis history cache lives
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			IngestTopic:  getEnv("EMBED_PAGE_CONTENT_TOPIC_NAME", "EMBED_PAGE_CONTENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Search: SearchConfig{
			MinSimilarity: getEnvAsFloat("SEARCH_MIN_SIMILARITY", 0.2),
			TopK:          getEnvAsInt("SEARCH_TOP_K", 10),
			MaxResults:    getEnvAsInt("SEARCH_MAX_RESULTS", 15),
			SKUPattern:    getEnv("SEARCH_SKU_PATTERN", ""),
		},
		Agent: AgentConfig{
			MaxIterations:    getEnvAsInt("AGENT_MAX_ITERATIONS", 5),
			MaxToolCalls:     getEnvAsInt("AGENT_MAX_TOOL_CALLS", 10),
			ToolTimeoutSec:   getEnvAsInt("AGENT_TOOL_TIMEOUT_SEC", 30),
			ModelRetries:     getEnvAsInt("AGENT_MODEL_RETRIES", 2),
			ConversationTTLM: getEnvAsInt("CONVERSATION_CACHE_TTL_MIN", 30),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
