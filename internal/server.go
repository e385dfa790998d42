package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutdash/internal/config"
	"github.com/2beens/workoutdash/internal/dashboard"
	"github.com/2beens/workoutdash/internal/insights"
	"github.com/2beens/workoutdash/internal/middleware"
	"github.com/2beens/workoutdash/internal/telemetry/tracing"
	"github.com/2beens/workoutdash/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config           *config.Config
	components       *Components
	uploadSecretHash string
	versionInfo      string
	otelShutdown     func()
}

type NewServerParams struct {
	Config                  *config.Config
	Secrets                 Secrets
	UploadSecretHash        string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "workoutdash-service")
	if err != nil {
		return nil, err
	}

	components, err := NewComponents(ctx, ComponentsParams{
		Config:           params.Config,
		Secrets:          params.Secrets,
		TracingEnabled:   params.HoneycombTracingEnabled,
		MetricsNamespace: "workoutdash",
		MetricsSubsystem: "service",
	})
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("new components: %w", err)
	}
	components.MetricsManager.GaugeLifeSignal.Set(0)

	if params.UploadSecretHash == "" {
		log.Warnln("upload secret hash not set, anyone can replace the dataset")
	}

	return &Server{
		config:           params.Config,
		components:       components,
		uploadSecretHash: params.UploadSecretHash,
		versionInfo:      params.VersionInfo,
		otelShutdown:     otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	cfg := s.config
	c := s.components

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("workoutdash-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	var rateLimiter middleware.RequestRateLimiter
	if c.RedisClient != nil {
		rateLimiter = redis_rate.NewLimiter(c.RedisClient)
	} else {
		log.Warnln("no redis configured, insights are not rate limited")
	}

	insightsService := insights.NewService(
		c.SummarySource(),
		c.LLMClient,
		cfg.InsightsModel,
		cfg.InsightsTemperature,
		cfg.MinExerciseEntries,
		c.MetricsManager,
	)
	dashboardHandler := dashboard.NewHandler(dashboard.HandlerParams{
		Store:          c.Store,
		Runner:         c.Runner,
		Source:         c.SummarySource(),
		Insights:       insightsService,
		PipelineParams: c.PipelineParams(),
		MinEntries:     cfg.MinExerciseEntries,
		MaxUploadBytes: int64(cfg.UploadMaxMB) << 20,
	})
	dashboardHandler.SetupRoutes(r, rateLimiter, cfg.InsightsPerMinute, s.uploadSecretHash)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(c.MetricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(c.MetricsManager))
	r.Use(middleware.Cors(cfg.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteResponseBytes(w, pkg.ContentType.Text, []byte("ok"), http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, map[string]string{"version": s.versionInfo})
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: 5 * time.Minute, // uploads run the whole pipeline
		ReadTimeout:  time.Minute,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	if s.config.MetricsPort > 0 {
		registry := s.components.PromRegistry
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
			registry,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		))
		metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
		s.metricsHttpServer = &http.Server{
			Addr:              metricsAddr,
			Handler:           metricsRouter,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Debugf(" > metrics listening on: [%s]", metricsAddr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics service, listen and serve: %s", err)
			}
		}()
	}

	s.components.MetricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.components.MetricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.components.Close()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
