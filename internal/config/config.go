package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	env_utils "pocketprc/internal/util/env"
	"pocketprc/internal/util/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var log = logger.GetLogger()

type EnvVariables struct {
	IsTesting            bool
	DatabaseDsn          string            `env:"DATABASE_DSN"           required:"true"`
	EnvMode              env_utils.EnvMode `env:"ENV_MODE"               required:"true"`
	BackendRootPath      string            `env:"BACKEND_ROOT_PATH"      required:"true"`
	ServerPort           string            `env:"SERVER_PORT"                             env-default:"4005"`
	AppURL               string            `env:"APP_URL"                                 env-default:"http://localhost:5173"`
	InitialAdminPassword string            `env:"INITIAL_ADMIN_PASSWORD" required:"false"`
	// cache
	ValkeyHost     string `env:"VALKEY_HOST"     required:"true"`
	ValkeyPort     string `env:"VALKEY_PORT"     required:"true"`
	ValkeyUsername string `env:"VALKEY_USERNAME" required:"false"`
	ValkeyPassword string `env:"VALKEY_PASSWORD" required:"false"`
	ValkeyIsSsl    bool   `env:"VALKEY_IS_SSL"   required:"true"`
	// attachments storage
	MinioEndpoint  string `env:"MINIO_ENDPOINT"   required:"true"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY" required:"true"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY" required:"true"`
	MinioBucket    string `env:"MINIO_BUCKET"                     env-default:"pocketprc-attachments"`
	MinioUseSsl    bool   `env:"MINIO_USE_SSL"                    env-default:"false"`
	// mail
	ResendApiKey      string `env:"RESEND_API_KEY"      required:"false"`
	MailFrom          string `env:"MAIL_FROM"                            env-default:"Pocket PRC <onboarding@resend.dev>"`
	LeadMainlandEmail string `env:"LEAD_MAINLAND_EMAIL"                  env-default:"leads@mainlandtitle.example"`
	LeadAnnieMacEmail string `env:"LEAD_ANNIEMAC_EMAIL"                  env-default:"rates@anniemac.example"`
}

var (
	env  EnvVariables
	once sync.Once
)

func GetEnv() EnvVariables {
	once.Do(loadEnvVariables)
	return env
}

func loadEnvVariables() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Warn("could not get current working directory", "error", err)
		cwd = "."
	}

	backendRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(backendRoot, "go.mod")); err == nil {
			break
		}

		parent := filepath.Dir(backendRoot)
		if parent == backendRoot {
			break
		}

		backendRoot = parent
	}

	envPaths := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(backendRoot, ".env"),
	}

	var loaded bool
	for _, path := range envPaths {
		log.Info("Trying to load .env", "path", path)
		if err := godotenv.Load(path); err == nil {
			log.Info("Successfully loaded .env", "path", path)
			loaded = true
			break
		}
	}

	if !loaded {
		log.Warn("No .env file found, relying on process environment")
	}

	if os.Getenv("BACKEND_ROOT_PATH") == "" {
		_ = os.Setenv("BACKEND_ROOT_PATH", backendRoot)
	}

	err = cleanenv.ReadEnv(&env)
	if err != nil {
		log.Error("Configuration could not be loaded", "error", err)
		os.Exit(1)
	}

	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			env.IsTesting = true
			break
		}
	}

	if env.DatabaseDsn == "" {
		log.Error("DATABASE_DSN is empty")
		os.Exit(1)
	}

	if !env.EnvMode.IsValid() {
		log.Error("ENV_MODE is invalid", "mode", env.EnvMode)
		os.Exit(1)
	}
	log.Info("ENV_MODE loaded", "mode", env.EnvMode)

	if env.ValkeyHost == "" || env.ValkeyPort == "" {
		log.Error("VALKEY_HOST and VALKEY_PORT must be set")
		os.Exit(1)
	}

	if env.MinioEndpoint == "" {
		log.Error("MINIO_ENDPOINT is empty")
		os.Exit(1)
	}

	env.AppURL = strings.TrimRight(env.AppURL, "/")

	if env.ResendApiKey == "" {
		log.Warn("RESEND_API_KEY is empty, outgoing emails will only be logged")
	}

	log.Info("Environment variables loaded successfully!")
}
