package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/2beens/workoutdash/internal/insights"
	"github.com/2beens/workoutdash/internal/middleware"
	"github.com/2beens/workoutdash/internal/pipeline"
	"github.com/2beens/workoutdash/internal/storage"
	"github.com/2beens/workoutdash/internal/summaries"
	"github.com/2beens/workoutdash/internal/telemetry/tracing"
	"github.com/2beens/workoutdash/internal/trends"
	"github.com/2beens/workoutdash/internal/workouts"
	"github.com/2beens/workoutdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=dashboard_test

const (
	StateNoData = "no_data"

	uploadFormField   = "file"
	multipartMemLimit = 8 << 20
)

type pipelineRunner interface {
	Run(ctx context.Context, params pipeline.Params) (*pipeline.RunReport, error)
}

type rowsSource interface {
	ListAll(ctx context.Context) ([]workouts.AggregatedRow, error)
}

type insightGenerator interface {
	Generate(ctx context.Context, q trends.Query) (*insights.Insight, error)
}

type StatusResponse struct {
	State  string              `json:"state"`
	Report *pipeline.RunReport `json:"report,omitempty"`
}

type OptionsResponse struct {
	GroupBy trends.GroupBy `json:"group_by"`
	Options []string       `json:"options"`
}

type TrendsResponse struct {
	Query  trends.Query     `json:"query"`
	Filter string           `json:"filter"`
	Points []trends.Point   `json:"points"`
	Trend  trends.TrendLine `json:"trend"`
}

type errorResponse struct {
	Error string `json:"error"`
	State string `json:"state,omitempty"`
}

type HandlerParams struct {
	Store          storage.Store
	Runner         pipelineRunner
	Source         rowsSource
	Insights       insightGenerator
	PipelineParams pipeline.Params
	MinEntries     int
	MaxUploadBytes int64
}

// Handler is the thin HTTP layer over the pipeline, the trend view and
// the insight service. There is one dataset, so pipeline runs are
// serialized.
type Handler struct {
	store          storage.Store
	runner         pipelineRunner
	source         rowsSource
	insights       insightGenerator
	pipelineParams pipeline.Params
	minEntries     int
	maxUploadBytes int64

	runMu sync.Mutex
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		store:          params.Store,
		runner:         params.Runner,
		source:         params.Source,
		insights:       params.Insights,
		pipelineParams: params.PipelineParams,
		minEntries:     params.MinEntries,
		maxUploadBytes: params.MaxUploadBytes,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	insightsPerMinute int,
	uploadSecretHash string,
) {
	router.Handle(
		"/uploads",
		middleware.UploadAuth(uploadSecretHash)(http.HandlerFunc(handler.handleUpload)),
	).Methods("POST", "OPTIONS").Name("upload")
	router.HandleFunc("/status", handler.handleStatus).Methods("GET").Name("status")
	router.HandleFunc("/trends/options", handler.handleOptions).Methods("GET").Name("trend-options")
	router.HandleFunc("/trends/chart", handler.handleChart).Methods("GET").Name("trend-chart")
	router.HandleFunc("/trends", handler.handleTrends).Methods("GET").Name("trends")

	var insightsHandler http.Handler = http.HandlerFunc(handler.handleInsights)
	if rateLimiter != nil && insightsPerMinute > 0 {
		insightsHandler = middleware.RateLimit(rateLimiter, "insights", insightsPerMinute)(insightsHandler)
	}
	router.Handle("/insights", insightsHandler).Methods("POST", "OPTIONS").Name("insights")
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.upload")
	defer span.End()

	if handler.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, handler.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload larger than %d bytes", maxBytesErr.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing upload field [file]")
		return
	}
	defer file.Close()
	span.SetAttributes(
		attribute.String("upload.filename", header.Filename),
		attribute.Int64("upload.size", header.Size),
	)

	handler.runMu.Lock()
	defer handler.runMu.Unlock()

	if err := handler.store.Put(ctx, handler.pipelineParams.InputKey, file); err != nil {
		log.Errorf("upload: store %s: %s", handler.pipelineParams.InputKey, err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	log.Infof("upload: stored [%s] (%d bytes) as %s", header.Filename, header.Size, handler.pipelineParams.InputKey)

	report, err := handler.runner.Run(ctx, handler.pipelineParams)
	if err != nil {
		log.Errorf("upload: pipeline run: %s", err)
		if report == nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		pkg.WriteJSON(w, http.StatusInternalServerError, report)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, report)
}

func (handler *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.status")
	defer span.End()

	report, err := pipeline.LoadReport(ctx, handler.store, handler.pipelineParams.OutputKey)
	if errors.Is(err, storage.ErrNotFound) {
		pkg.WriteJSONResponseOK(w, StatusResponse{State: StateNoData})
		return
	}
	if err != nil {
		log.Errorf("status: load run report: %s", err)
		writeError(w, http.StatusInternalServerError, "failed to load run report")
		return
	}

	span.SetAttributes(attribute.String("run.status", string(report.Status)))
	pkg.WriteJSONResponseOK(w, StatusResponse{
		State:  string(report.Status),
		Report: report,
	})
}

func (handler *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.options")
	defer span.End()

	q := trends.Query{GroupBy: trends.GroupBy(r.URL.Query().Get("group_by"))}.WithDefaults()
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, ok := handler.listRows(ctx, w)
	if !ok {
		return
	}

	pkg.WriteJSONResponseOK(w, OptionsResponse{
		GroupBy: q.GroupBy,
		Options: trends.FilterOptions(rows, q.GroupBy, handler.minEntries),
	})
}

func (handler *Handler) handleTrends(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.trends")
	defer span.End()

	q, err := queryFromValues(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, ok := handler.listRows(ctx, w)
	if !ok {
		return
	}

	_, filter := trends.Selected(rows, q, handler.minEntries)
	q.Filter = filter
	points := trends.Series(rows, q, handler.minEntries)
	span.SetAttributes(attribute.Int("points", len(points)))

	pkg.WriteJSONResponseOK(w, TrendsResponse{
		Query:  q,
		Filter: filter,
		Points: points,
		Trend:  trends.Trend(points),
	})
}

func (handler *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.chart")
	defer span.End()

	q, err := queryFromValues(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, ok := handler.listRows(ctx, w)
	if !ok {
		return
	}

	_, q.Filter = trends.Selected(rows, q, handler.minEntries)
	points := trends.Series(rows, q, handler.minEntries)

	var buf bytes.Buffer
	if err := trends.RenderChart(&buf, points, q); err != nil {
		log.Errorf("chart: render: %s", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), http.StatusOK)
}

func (handler *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "dashboardHandler.insights")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var q trends.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json query")
		return
	}

	insight, err := handler.insights.Generate(ctx, q)
	switch {
	case err == nil:
		pkg.WriteJSONResponseOK(w, insight)
	case errors.Is(err, trends.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, summaries.ErrNoSummary), errors.Is(err, insights.ErrNoData):
		pkg.WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), State: StateNoData})
	default:
		log.Errorf("insights: generate: %s", err)
		writeError(w, http.StatusBadGateway, "insight generation unavailable")
	}
}

// listRows writes the error response itself and reports false when the
// summary table cannot be read.
func (handler *Handler) listRows(ctx context.Context, w http.ResponseWriter) ([]workouts.AggregatedRow, bool) {
	rows, err := handler.source.ListAll(ctx)
	if errors.Is(err, summaries.ErrNoSummary) {
		pkg.WriteJSON(w, http.StatusNotFound, errorResponse{Error: "no summary data yet", State: StateNoData})
		return nil, false
	}
	if err != nil {
		log.Errorf("list summary rows: %s", err)
		writeError(w, http.StatusInternalServerError, "failed to read summary data")
		return nil, false
	}
	return rows, true
}

func queryFromValues(values url.Values) (trends.Query, error) {
	q := trends.Query{
		Granularity: trends.Granularity(values.Get("granularity")),
		Metric:      trends.Metric(values.Get("metric")),
		GroupBy:     trends.GroupBy(values.Get("group_by")),
		Filter:      values.Get("filter"),
	}.WithDefaults()
	return q, q.Validate()
}

func writeError(w http.ResponseWriter, statusCode int, msg string) {
	pkg.WriteJSON(w, statusCode, errorResponse{Error: msg})
}
