package app

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	printerpanel "github.com/iwtcode/printerPanel"
	"github.com/iwtcode/printerPanel/feed"
	"github.com/iwtcode/printerPanel/internal/adapters/handlers"
	"github.com/iwtcode/printerPanel/internal/config"
	"github.com/iwtcode/printerPanel/internal/services/telemetry"
	"github.com/iwtcode/printerPanel/models"
)

// New создает новый экземпляр fx.App.
func New() *fx.App {
	return fx.New(
		ConfigModule,
		PanelModule,
		TelemetryModule,
		FeedModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeLoadControls),
		fx.Invoke(InvokeStateFeed),
		fx.Invoke(InvokeTelemetry),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

// ProvidePanel создает клиента панели, его конфигурацию и логгер.
// Зависимость от AppConfig гарантирует, что .env уже загружен.
func ProvidePanel(_ *config.AppConfig) (*printerpanel.Client, *printerpanel.Config, *logrus.Logger, error) {
	cfg := printerpanel.Load()
	client, err := printerpanel.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return client, cfg, client.GetLogger(), nil
}

var PanelModule = fx.Module("panel_module",
	fx.Provide(ProvidePanel),
)

var TelemetryModule = fx.Module("telemetry_module",
	fx.Provide(telemetry.NewPublisher),
)

// ProvideFeed создает клиента фида состояния, направленного в панель.
func ProvideFeed(panel *printerpanel.Client, cfg *printerpanel.Config, logger *logrus.Logger) *feed.Client {
	return feed.NewClient(cfg.FeedURL, panel, logger)
}

var FeedModule = fx.Module("feed_module",
	fx.Provide(ProvideFeed),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeLoadControls загружает определения контролов при старте.
func InvokeLoadControls(lc fx.Lifecycle, panel *printerpanel.Client, logger *logrus.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := panel.LoadControls(ctx); err != nil {
				// Панель работоспособна и без пользовательских контролов.
				logger.WithError(err).Warn("Failed to load custom controls, continuing without them")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			panel.Close()
			return nil
		},
	})
}

// InvokeStateFeed запускает чтение фида состояния в фоне.
func InvokeStateFeed(lc fx.Lifecycle, feedClient *feed.Client) {
	feedCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() { _ = feedClient.Run(feedCtx) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

// InvokeTelemetry подписывает продюсера телеметрии на снапшоты состояния.
func InvokeTelemetry(lc fx.Lifecycle, panel *printerpanel.Client, publisher *telemetry.Publisher) {
	var unsubscribe func()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if publisher == nil {
				return nil
			}
			unsubscribe = panel.Status().Subscribe(func(flags models.StatusFlags) {
				publisher.PublishSnapshot(context.Background(), flags)
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if unsubscribe != nil {
				unsubscribe()
			}
			return publisher.Close()
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logrus.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.WithField("address", serverAddr).Info("HTTP Server is starting")
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.WithError(err).Error("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
