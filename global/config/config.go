package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

// AppConfig is the process-wide configuration, loaded once at startup from
// the environment (a local .env is honored in development, like the original
// deployment did).
type AppConfig struct {
	Port   int    `envconfig:"PORT" default:"5001"`
	NodeID int64  `envconfig:"NODE_ID" default:"1"`
	Env    string `envconfig:"APP_ENV" default:"development"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	Mongo struct {
		URI         string `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
		Database    string `envconfig:"MONGODB_DATABASE" default:"chat_db"`
		Username    string `envconfig:"MONGODB_USERNAME"`
		Password    string `envconfig:"MONGODB_PASSWORD"`
		MaxPoolSize int    `envconfig:"MONGODB_MAX_POOL_SIZE" default:"20"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Groq struct {
		APIKey  string `envconfig:"GROQ_API_KEY"`
		BaseURL string `envconfig:"GROQ_BASE_URL" default:"https://api.groq.com/openai/v1"`
		Model   string `envconfig:"GROQ_MODEL" default:"llama3-8b-8192"`
	}

	Cloudinary struct {
		CloudName string `envconfig:"CLOUDINARY_CLOUD_NAME"`
		APIKey    string `envconfig:"CLOUDINARY_API_KEY"`
		APISecret string `envconfig:"CLOUDINARY_API_SECRET"`
	}
}

var Global AppConfig

// Load populates Global. Missing .env is fine; required vars must then come
// from the real environment.
func Load() error {
	if err := godotenv.Load(); err != nil {
		logger.Infof("[config] no .env file, using process environment")
	}
	if err := envconfig.Process("", &Global); err != nil {
		return errs.WrapMsg(err, "load config from environment")
	}
	return nil
}

func GetJwtSecret() []byte {
	return []byte(Global.JWTSecret)
}
