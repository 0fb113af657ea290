package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	Meta        Meta        `mapstructure:",squash"`
	GoogleAds   GoogleAds   `mapstructure:",squash"`
	TikTok      TikTok      `mapstructure:",squash"`
	LinkedIn    LinkedIn    `mapstructure:",squash"`
	Pinterest   Pinterest   `mapstructure:",squash"`
	Sync        Sync        `mapstructure:",squash"`
	MetricsSync MetricsSync `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Meta struct {
	BaseURL   string `mapstructure:"meta_base_url"`
	URL       string `mapstructure:"-"`
	Version   string `mapstructure:"meta_version"`
	AppID     string `mapstructure:"meta_app_id"`
	AppSecret string `mapstructure:"meta_app_secret"`
}

type GoogleAds struct {
	URL            string `mapstructure:"googleads_url"`
	TokenURL       string `mapstructure:"googleads_token_url"`
	ClientID       string `mapstructure:"googleads_client_id"`
	ClientSecret   string `mapstructure:"googleads_client_secret"`
	DeveloperToken string `mapstructure:"googleads_developer_token"`
}

type TikTok struct {
	URL       string `mapstructure:"tiktok_url"`
	AppID     string `mapstructure:"tiktok_app_id"`
	AppSecret string `mapstructure:"tiktok_app_secret"`
}

type LinkedIn struct {
	URL          string `mapstructure:"linkedin_url"`
	TokenURL     string `mapstructure:"linkedin_token_url"`
	ClientID     string `mapstructure:"linkedin_client_id"`
	ClientSecret string `mapstructure:"linkedin_client_secret"`
}

type Pinterest struct {
	URL          string `mapstructure:"pinterest_url"`
	TokenURL     string `mapstructure:"pinterest_token_url"`
	ClientID     string `mapstructure:"pinterest_client_id"`
	ClientSecret string `mapstructure:"pinterest_client_secret"`
}

// Sync concentra os parâmetros de execução do motor de sincronização
type Sync struct {
	UpsertBatchSize          int `mapstructure:"sync_upsert_batch_size"`
	TokenRefreshMarginMin    int `mapstructure:"sync_token_refresh_margin_minutes"`
	RequestDelayMilliseconds int `mapstructure:"sync_request_delay_milliseconds"`
}

// MetricsSync configura o agendador de sincronização incremental diária
type MetricsSync struct {
	CronSchedule      string `mapstructure:"metrics_sync_cron"`
	LookbackDays      int    `mapstructure:"metrics_sync_lookback_days"`
	MaxConcurrentJobs int    `mapstructure:"metrics_sync_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"metrics_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/admetrics")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "your_app_id")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")

	viper.SetDefault("GOOGLEADS_URL", "https://googleads.googleapis.com/v18")
	viper.SetDefault("GOOGLEADS_TOKEN_URL", "https://oauth2.googleapis.com/token")
	viper.SetDefault("GOOGLEADS_CLIENT_ID", "your_client_id")
	viper.SetDefault("GOOGLEADS_CLIENT_SECRET", "your_client_secret")
	viper.SetDefault("GOOGLEADS_DEVELOPER_TOKEN", "your_developer_token")

	viper.SetDefault("TIKTOK_URL", "https://business-api.tiktok.com/open_api/v1.3")
	viper.SetDefault("TIKTOK_APP_ID", "your_app_id")
	viper.SetDefault("TIKTOK_APP_SECRET", "your_app_secret")

	viper.SetDefault("LINKEDIN_URL", "https://api.linkedin.com/rest")
	viper.SetDefault("LINKEDIN_TOKEN_URL", "https://www.linkedin.com/oauth/v2/accessToken")
	viper.SetDefault("LINKEDIN_CLIENT_ID", "your_client_id")
	viper.SetDefault("LINKEDIN_CLIENT_SECRET", "your_client_secret")

	viper.SetDefault("PINTEREST_URL", "https://api.pinterest.com/v5")
	viper.SetDefault("PINTEREST_TOKEN_URL", "https://api.pinterest.com/v5/oauth/token")
	viper.SetDefault("PINTEREST_CLIENT_ID", "your_client_id")
	viper.SetDefault("PINTEREST_CLIENT_SECRET", "your_client_secret")

	// Defaults do motor de sincronização
	viper.SetDefault("SYNC_UPSERT_BATCH_SIZE", 500)           // Limite de registros por upsert
	viper.SetDefault("SYNC_TOKEN_REFRESH_MARGIN_MINUTES", 15) // Margem antes da expiração do token
	viper.SetDefault("SYNC_REQUEST_DELAY_MILLISECONDS", 500)  // Pausa entre requisições às APIs

	// Defaults da sincronização incremental agendada
	viper.SetDefault("METRICS_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("METRICS_SYNC_LOOKBACK_DAYS", 7)  // 7 dias para buscar dados
	viper.SetDefault("METRICS_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("METRICS_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
