package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator/googleads"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator/linkedin"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator/pinterest"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator/tiktok"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository"
	"github.com/vfg2006/ad-metrics-api/internal/api"
	"github.com/vfg2006/ad-metrics-api/internal/api/handler"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/scheduler"
	"github.com/vfg2006/ad-metrics-api/internal/usecases/normalizing"
	"github.com/vfg2006/ad-metrics-api/internal/usecases/syncing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	integrationRepo := repository.NewIntegrationRepository(pgConn)
	accountRepo := repository.NewAccountRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	metricRepo := repository.NewMetricRepository(pgConn, cfg.Sync.UpsertBatchSize)

	registry := integrator.NewRegistry(
		meta.NewClient(cfg),
		googleads.NewClient(cfg),
		tiktok.NewClient(cfg),
		linkedin.NewClient(cfg),
		pinterest.NewClient(cfg),
	)
	logrus.WithField("platforms", registry.Platforms()).Info("Clientes de plataforma registrados")

	tokenGuard := integrator.NewTokenGuard(
		integrationRepo,
		registry,
		time.Duration(cfg.Sync.TokenRefreshMarginMin)*time.Minute,
	)

	syncService := syncing.NewService(
		cfg,
		integrationRepo,
		accountRepo,
		campaignRepo,
		metricRepo,
		registry,
		tokenGuard,
		normalizing.New(),
		syncing.NewLogProgressReporter(),
	)

	metricsSyncService := scheduler.NewMetricsSyncService(integrationRepo, syncService, cfg)

	if err := metricsSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de métricas")
	} else {
		logrus.Info("Agendador de sincronização de métricas iniciado com sucesso")
	}

	server, err := api.New(cfg, handler.SyncServices{
		SyncService:        syncService,
		MetricsSyncService: metricsSyncService,
		IntegrationRepo:    integrationRepo,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
