package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
	chartio "github.com/matzehuels/barchart/pkg/io"
	"github.com/matzehuels/barchart/pkg/observability"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// Server timeouts outside the per-request render timeout.
const (
	serverReadTimeout     = 30 * time.Second
	serverIdleTimeout     = 120 * time.Second
	serverShutdownTimeout = 10 * time.Second
)

// requestIDHeader carries the request ID in both directions.
const requestIDHeader = "X-Request-ID"

// contentTypes maps render formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatHTML: "text/html; charset=utf-8",
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve chart rendering over HTTP",
		Long: `Start an HTTP server that renders charts posted to it.

Endpoints:
  POST /render   render the chart in the body (JSON, TOML or YAML)
  POST /layout   return the geometry and scene as JSON
  GET  /healthz  liveness probe
  GET  /metrics  Prometheus metrics

POST /render accepts the query parameters format, width, height, measurer,
scale, animate and refresh. The body's format is taken from the
Content-Type header (application/json, application/toml, application/yaml).

Set cache.redis_addr (or --redis) to share rendered artifacts between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "listen address (default "+defaultServerAddr+")")
	cmd.Flags().Duration("timeout", 0, fmt.Sprintf("per-request render timeout (default %s)", defaultServerTimeout))
	cmd.Flags().Bool("no-cache", false, "disable caching")
	addRenderFlags(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewPrometheus(registry)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetServerHooks(metrics)
	defer observability.Reset()

	srv := &http.Server{
		Addr:        c.Config.Server.Addr,
		Handler:     newServer(runner, c.Config, c.Logger, registry).routes(),
		ReadTimeout: serverReadTimeout,
		IdleTimeout: serverIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("barchart server starting", "addr", "http://"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner   *pipeline.Runner
	cfg      *Config
	logger   *log.Logger
	gatherer prometheus.Gatherer
}

func newServer(runner *pipeline.Runner, cfg *Config, logger *log.Logger, gatherer prometheus.Gatherer) *server {
	return &server{runner: runner, cfg: cfg, logger: logger, gatherer: gatherer}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Server.Timeout))
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)
	})
	return r
}

// requestID assigns a UUID to every request that does not bring its own.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// observe logs each request and reports it to the server hooks. The route
// label is the matched pattern, known only once routing is done.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	vm, opts, err := s.readRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), vm, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Chart-Hash", result.ChartHash)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	vm, opts, err := s.readRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := pipeline.ChartHash(vm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), vm, hash, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Chart-Hash", hash)
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, entry)
}

// readRequest decodes the chart body and the pipeline options in the query.
func (s *server) readRequest(w http.ResponseWriter, r *http.Request) (*chart.ViewModel, pipeline.Options, error) {
	opts := s.cfg.PipelineOptions()
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	f, err := bodyFormat(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, opts, err
	}
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	vm, err := chartio.ReadChart(body, f)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, opts, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, opts, err
	}
	if err := pipeline.ValidateChart(vm); err != nil {
		return nil, opts, err
	}

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"scale", &opts.Scale},
	} {
		if v := q.Get(p.name); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", p.name, v)
			}
			*p.dst = n
		}
	}
	if v := q.Get("measurer"); v != "" {
		opts.Measurer = v
	}
	for _, p := range []struct {
		name string
		dst  *bool
	}{
		{"animate", &opts.Animate},
		{"refresh", &opts.Refresh},
	} {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", p.name, v)
			}
			*p.dst = b
		}
	}
	return vm, opts, nil
}

// bodyFormat maps a request Content-Type to a chart file format. A missing
// Content-Type means JSON.
func bodyFormat(contentType string) (chartio.Format, error) {
	if contentType == "" {
		return chartio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid Content-Type %q", contentType)
	}
	switch mt {
	case "application/json":
		return chartio.FormatJSON, nil
	case "application/toml", "text/toml":
		return chartio.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return chartio.FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported Content-Type %q", mt)
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, context.DeadlineExceeded) && errors.GetCode(err) == "" {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "render timed out")
	}
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(code),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
