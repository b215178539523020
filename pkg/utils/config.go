package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// best effort; absent .env is the normal case
	_ = godotenv.Load()
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("NOVELHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("NOVELHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "novelhub"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("NOVELHUB_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

// TranslateConfig configures the machine-translation client. An empty
// APIKey disables translation; callers skip the step.
type TranslateConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

func LoadTranslateConfig() TranslateConfig {
	base := os.Getenv("NOVELHUB_MT_BASE_URL")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	model := os.Getenv("NOVELHUB_MT_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return TranslateConfig{
		BaseURL: base,
		APIKey:  os.Getenv("NOVELHUB_MT_API_KEY"),
		Model:   model,
	}
}
