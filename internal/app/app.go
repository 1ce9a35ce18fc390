package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/hotel-booking/internal/admin"
	"github.com/xenking/hotel-booking/internal/domain/hotel"
	"github.com/xenking/hotel-booking/internal/handler"
	"github.com/xenking/hotel-booking/internal/notify"
	"github.com/xenking/hotel-booking/internal/seed"
	"github.com/xenking/hotel-booking/pkg/health"
	"github.com/xenking/hotel-booking/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m httpmiddleware.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Notifications leave the request path through a bounded queue.
	var sink notify.Notifier = notify.NewLog(lg.Named("notify"))
	if len(cfg.Notify.Brokers) > 0 {
		k := notify.NewKafka(cfg.Notify.Brokers, cfg.Notify.Topic)
		defer func() {
			if err := k.Close(); err != nil {
				lg.Error("Close kafka writer", zap.Error(err))
			}
		}()
		sink = k
		lg.Info("Publishing notifications to kafka",
			zap.Strings("brokers", cfg.Notify.Brokers),
			zap.String("topic", cfg.Notify.Topic),
		)
	}
	notifier := notify.NewAsync(sink, lg.Named("notify"), cfg.Notify.QueueSize, cfg.Notify.Timeout)
	// Drained on every return path, before the kafka writer closes.
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()
		if err := notifier.Close(drainCtx); err != nil {
			lg.Error("Notification queue not drained", zap.Error(err))
		}
	}()

	svc, err := build(ctx, lg, m, cfg, notifier)
	if err != nil {
		return err
	}

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           svc.handler,
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		svc.health.SetReady(false)
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

// service is the composed API: the hotel, its health checks and the
// middleware-wrapped mux.
type service struct {
	hotel   *hotel.Hotel
	health  *health.Health
	handler http.Handler
}

func build(ctx context.Context, lg *zap.Logger, t httpmiddleware.Telemetry, cfg *Config, n notify.Notifier) (*service, error) {
	h, err := hotel.New(
		hotel.WithNotifier(n),
		hotel.WithLogger(lg.Named("hotel")),
		hotel.WithTracerProvider(t.TracerProvider()),
		hotel.WithMeterProvider(t.MeterProvider()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create hotel")
	}
	if err := load(ctx, h, cfg); err != nil {
		return nil, err
	}
	lg.Info("Hotel seeded", zap.Int("rooms", h.RoomCount()))

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("rooms", time.Second, health.NonEmptyCheck("room catalog", h.RoomCount))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	handler.New(h, admin.NewGate(cfg.Admin.Username, cfg.Admin.Password)).Register(mux)

	return &service{
		hotel:  h,
		health: healthSvc,
		handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("hotel-api", t),
			httpmiddleware.LogRequests(),
			httpmiddleware.Route(),
		),
	}, nil
}

// load applies the seed file and then every promo fragment on top of it.
func load(ctx context.Context, h *hotel.Hotel, cfg *Config) error {
	now := time.Now()
	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return errors.Wrap(err, "load seed")
	}
	if err := data.Apply(ctx, h, now); err != nil {
		return errors.Wrap(err, "apply seed")
	}
	for _, path := range cfg.PromoFiles {
		fragment, err := seed.Load(path)
		if err != nil {
			return errors.Wrap(err, "load promo fragment")
		}
		if err := fragment.Apply(ctx, h, now); err != nil {
			return errors.Wrapf(err, "apply %s", path)
		}
		zctx.From(ctx).Info("Promo fragment applied",
			zap.String("path", path),
			zap.Int("codes", len(fragment.PromoCodes)),
		)
	}
	return nil
}
