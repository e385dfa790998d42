package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/2beens/workoutdash/internal/bodyparts"
	"github.com/2beens/workoutdash/internal/config"
	"github.com/2beens/workoutdash/internal/db"
	"github.com/2beens/workoutdash/internal/llm"
	"github.com/2beens/workoutdash/internal/pipeline"
	"github.com/2beens/workoutdash/internal/storage"
	"github.com/2beens/workoutdash/internal/summaries"
	"github.com/2beens/workoutdash/internal/telemetry/metrics"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	MapStoreStorage = "storage"
	MapStoreRedis   = "redis"

	SummarySourceCSV      = "csv"
	SummarySourcePostgres = "postgres"
)

// Secrets are the values that never live in config.toml.
type Secrets struct {
	LLMAPIKey        string
	RedisPassword    string
	PostgresPassword string
}

type ComponentsParams struct {
	Config         *config.Config
	Secrets        Secrets
	TracingEnabled bool
	// MetricsNamespace and MetricsSubsystem label everything this
	// process registers.
	MetricsNamespace string
	MetricsSubsystem string
}

// Components holds everything the pipeline CLI and the dashboard service
// share. Redis and Postgres are only connected when config asks for them.
type Components struct {
	Config         *config.Config
	Store          storage.Store
	LLMClient      *llm.Client
	RedisClient    *redis.Client
	DBPool         *pgxpool.Pool
	SummariesRepo  *summaries.Repo
	Runner         *pipeline.Runner
	MetricsManager *metrics.Manager
	PromRegistry   *prometheus.Registry
}

func NewComponents(ctx context.Context, params ComponentsParams) (_ *Components, err error) {
	cfg := params.Config
	c := &Components{Config: cfg}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	var collectors []prometheus.Collector
	if cfg.PostgresEnabled {
		c.DBPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.Secrets.PostgresPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := c.DBPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		c.SummariesRepo = summaries.NewRepo(c.DBPool)
		if err := c.SummariesRepo.EnsureSchema(ctx); err != nil {
			log.Errorf("ensure summaries schema: %s", err)
		}
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			c.DBPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	c.PromRegistry = metrics.SetupPrometheus(collectors...)
	c.MetricsManager = metrics.NewManager(params.MetricsNamespace, params.MetricsSubsystem, c.PromRegistry)

	if cfg.RedisHost != "" {
		c.RedisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.Secrets.RedisPassword,
			DB:       0, // use default DB
		})
		if params.TracingEnabled {
			c.RedisClient.AddHook(redisotel.NewTracingHook())
		}
		if err := c.RedisClient.Ping(ctx).Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		}
	}

	c.Store, err = storage.New(ctx, storage.Params{
		Backend:         cfg.StorageBackend,
		DiskRootPath:    cfg.StorageRootPath,
		CredentialsFile: cfg.DriveCredentialsPath,
		DriveFolderName: cfg.DriveFolderName,
	})
	if err != nil {
		return nil, fmt.Errorf("new storage: %w", err)
	}

	c.LLMClient = llm.NewClient(cfg.LLMBaseURL, params.Secrets.LLMAPIKey, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.LLMTimeout(),
	})

	mapStore, err := c.mapStore()
	if err != nil {
		return nil, err
	}

	// without an API key every run is degraded, but volume, reps and
	// rpe aggregates are still produced
	var classifier bodyparts.Classifier
	if params.Secrets.LLMAPIKey != "" {
		classifier = bodyparts.NewLLMClassifier(c.LLMClient, cfg.ClassifierModel, bodyparts.DefaultRules)
	} else {
		log.Warnln("no llm api key set, exercises will not be classified")
	}
	enricher := bodyparts.NewEnricher(classifier, mapStore, bodyparts.DefaultRules)

	var sink pipeline.SummarySink
	if c.SummariesRepo != nil {
		sink = c.SummariesRepo
	}
	c.Runner = pipeline.NewRunner(c.Store, enricher, sink, c.MetricsManager)

	return c, nil
}

func (c *Components) mapStore() (bodyparts.MapStore, error) {
	switch c.Config.BodyPartMapStore {
	case MapStoreRedis:
		if c.RedisClient == nil {
			return nil, fmt.Errorf("body part map store [redis] needs redis_host")
		}
		return bodyparts.NewRedisMapStore(c.RedisClient, ""), nil
	default:
		return bodyparts.NewStorageMapStore(c.Store, c.Config.BodyPartMapKey), nil
	}
}

// PipelineParams are the run parameters taken from config.
func (c *Components) PipelineParams() pipeline.Params {
	return pipeline.Params{
		InputKey:   c.Config.InputKey,
		OutputKey:  c.Config.OutputKey,
		Comma:      c.Config.Comma(),
		DefaultRPE: c.Config.DefaultRPE,
	}
}

// SummarySource is where the dashboard reads the summary table from.
func (c *Components) SummarySource() summaries.Source {
	if c.Config.SummarySource == SummarySourcePostgres {
		if c.SummariesRepo != nil {
			return c.SummariesRepo
		}
		log.Warnln("summary source [postgres] needs postgres_enabled, reading the csv artifact")
	}
	return summaries.NewCSVSource(c.Store, c.Config.OutputKey)
}

func (c *Components) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}
	if c.DBPool != nil {
		log.Debugln("closing db pool ...")
		c.DBPool.Close()
		log.Debugln("db pool closed")
	}
}

// SecretsFromEnv reads the secrets every binary needs from the environment.
func SecretsFromEnv() Secrets {
	secrets := Secrets{
		LLMAPIKey:        os.Getenv("OPENAI_API_KEY"),
		RedisPassword:    os.Getenv("WORKOUTDASH_REDIS_PASS"),
		PostgresPassword: os.Getenv("WORKOUTDASH_POSTGRES_PASS"),
	}
	if secrets.LLMAPIKey == "" {
		log.Warnln("llm api key not set, use OPENAI_API_KEY to set it")
	}
	return secrets
}
