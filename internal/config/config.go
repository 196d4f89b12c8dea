package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Speech  SpeechConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
	ExportDir   string
}

type BackendConfig struct {
	BaseURL        string `validate:"required,url"`
	RequestTimeout time.Duration
	// Uploads carry whole files plus server-side OCR/chunking time, so
	// they get a longer budget than plain JSON calls.
	UploadTimeout time.Duration
	ModelCacheTTL time.Duration
}

type SpeechConfig struct {
	Enabled       bool
	LanguageCode  string
	SampleRate    int
	RecordCommand string
	SpeakCommand  string
	// Path to a service account key for the speech API. Empty means
	// application default credentials.
	CredentialsFile string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "docuchat.log"),
			ExportDir:   getEnv("EXPORT_DIR", "."),
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("BACKEND_BASE_URL", "http://localhost:5000"),
			RequestTimeout: getEnvAsDuration("BACKEND_REQUEST_TIMEOUT", 60*time.Second),
			UploadTimeout:  getEnvAsDuration("BACKEND_UPLOAD_TIMEOUT", 5*time.Minute),
			ModelCacheTTL:  getEnvAsDuration("MODEL_CACHE_TTL", 5*time.Minute),
		},
		Speech: SpeechConfig{
			Enabled:         getEnvAsBool("SPEECH_ENABLED", true),
			LanguageCode:    getEnv("SPEECH_LANGUAGE", "en-US"),
			SampleRate:      getEnvAsInt("SPEECH_SAMPLE_RATE", 16000),
			RecordCommand:   getEnv("SPEECH_RECORD_COMMAND", ""),
			SpeakCommand:    getEnv("SPEECH_SPEAK_COMMAND", ""),
			CredentialsFile: getEnv("SPEECH_CREDENTIALS_FILE", ""),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
