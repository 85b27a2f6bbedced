package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// Provider names accepted by AI_PROVIDER.
const (
	ProviderZhipu    = "zhipu"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
	ProviderLlamaCpp = "llamacpp"
)

type Config struct {
	AI       AIConfig
	Zhipu    ZhipuConfig
	OpenAI   OpenAIConfig
	Gemini   GeminiConfig
	Ollama   OllamaConfig
	LlamaCpp LlamaCppConfig
	Web      WebConfig
	Log      LogConfig
	Prices   PricesConfig
}

// AIConfig holds settings shared by every provider.
type AIConfig struct {
	Provider       string
	Temperature    float64
	MaxImageSize   int           // longest edge in px before upload, 0 sends the original bytes
	RequestTimeout time.Duration // 0 means no timeout beyond the request context
}

type ZhipuConfig struct {
	APIKey string
	URL    string // base URL of the OpenAI-compatible endpoint
	Model  string
}

type OpenAIConfig struct {
	Token string
	Model string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OllamaConfig struct {
	URL   string // defaults to http://localhost:11434
	Model string // defaults to llama3.2-vision:11b
}

type LlamaCppConfig struct {
	URL   string // defaults to http://localhost:8080/v1/
	Model string // defaults to llava
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // CORS whitelist in addition to localhost
}

type LogConfig struct {
	Level string
	File  string
}

type PricesConfig struct {
	Models map[string]RequestPricing `yaml:"models"`
}

// RequestPricing holds input/output prices per 1M tokens.
type RequestPricing struct {
	Input  float64 `yaml:"input"`
	Output float64 `yaml:"output"`
}

// envString returns the env var value or defaultVal when unset or blank.
func envString(key, defaultVal string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a non-negative integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a float in [0, 2].
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f <= 2 {
		return f
	}
	return defaultVal
}

// envDuration accepts Go duration strings ("90s") or a plain number of seconds.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

// envList splits a comma-separated env var, dropping blank entries.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var prices PricesConfig
	if err := yaml.Unmarshal(modelsYAML, &prices); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}

	return &Config{
		AI: AIConfig{
			Provider:       strings.ToLower(envString("AI_PROVIDER", ProviderZhipu)),
			Temperature:    envFloat("AI_TEMPERATURE", 0.7),
			MaxImageSize:   envInt("AI_MAX_IMAGE_SIZE", 0),
			RequestTimeout: envDuration("AI_REQUEST_TIMEOUT", 0),
		},
		Zhipu: ZhipuConfig{
			APIKey: os.Getenv("ZHIPU_API_KEY"),
			URL:    envString("ZHIPU_API_URL", "https://open.bigmodel.cn/api/paas/v4/"),
			Model:  envString("ZHIPU_MODEL", "glm-4v-flash"),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
			Model: envString("OPENAI_MODEL", "gpt-4.1-mini"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  envString("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Ollama: OllamaConfig{
			URL:   envString("OLLAMA_URL", "http://localhost:11434"),
			Model: envString("OLLAMA_MODEL", "llama3.2-vision:11b"),
		},
		LlamaCpp: LlamaCppConfig{
			URL:   envString("LLAMACPP_URL", "http://localhost:8080/v1/"),
			Model: envString("LLAMACPP_MODEL", "llava"),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		Prices: prices,
	}
}

// GetModelPricing returns pricing for a specific model, zero when unknown.
func (c *Config) GetModelPricing(modelName string) RequestPricing {
	if pricing, ok := c.Prices.Models[modelName]; ok {
		return pricing
	}
	return RequestPricing{}
}

// Cost converts token counts into USD using the model's price.
func (p RequestPricing) Cost(inputTokens, outputTokens int64) float64 {
	return float64(inputTokens)/1_000_000*p.Input + float64(outputTokens)/1_000_000*p.Output
}
