package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/dsoler/futurshop/internal/domain/checkout"
	"github.com/dsoler/futurshop/internal/handler"
	"github.com/dsoler/futurshop/internal/payment"
	"github.com/dsoler/futurshop/internal/storage/catalogfile"
	"github.com/dsoler/futurshop/internal/uploads"
	"github.com/dsoler/futurshop/pkg/health"
	"github.com/dsoler/futurshop/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.String("data_dir", cfg.DataDir))

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}

	// Durable state: catalog file + image blob area.
	store, err := catalogfile.Open(cfg.CatalogPath())
	if err != nil {
		return errors.Wrap(err, "open catalog store")
	}
	intake, err := uploads.NewIntake(cfg.UploadsDir())
	if err != nil {
		return errors.Wrap(err, "init upload intake")
	}

	// Payment processor.
	provider := payment.NewStripeProvider(payment.StripeConfig{
		SecretKey:  cfg.StripeSecretKey,
		SuccessURL: cfg.PublicBaseURL + "?success=true",
		CancelURL:  cfg.PublicBaseURL + "?cancel=true",
		Timeout:    cfg.CheckoutTimeout,
	})
	checkoutSvc := checkout.NewService(provider, cfg.Currency)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", 2*time.Second, store.Ping)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// Static site dir is optional; serve it only when present.
	staticDir := cfg.StaticDir
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err != nil {
			lg.Info("Static dir missing, not serving a site root", zap.String("dir", staticDir))
			staticDir = ""
		}
	}

	h := handler.New(store, intake, checkoutSvc)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/", h.Routes(handler.Config{
		UploadsDir: cfg.UploadsDir(),
		StaticDir:  staticDir,
	}))

	instrumented := otelhttp.NewHandler(mux, "futurshop-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(instrumented,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type"},
				MaxAge:       86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
