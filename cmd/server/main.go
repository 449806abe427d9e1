package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/estatedesk/admin/internal/server"
	"github.com/estatedesk/admin/modules"
	"github.com/estatedesk/admin/modules/projects"
	"github.com/estatedesk/admin/pkg/application"
	"github.com/estatedesk/admin/pkg/configuration"
	"github.com/estatedesk/admin/pkg/eventbus"
	"github.com/estatedesk/admin/pkg/logging"
	"github.com/estatedesk/admin/pkg/metrics"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.OpenTelemetry.Enabled {
		tracingCleanup := logging.SetupTracing(ctx, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.TempoURL)
		defer tracingCleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to Tempo at " + conf.OpenTelemetry.TempoURL)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		Bundle:   application.LoadBundle(),
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	projectOpts := &projects.ModuleOptions{
		Forms:            conf.Forms,
		UploadsPath:      conf.UploadsPath,
		UploadsURLPrefix: conf.UploadsURLPrefix,
		RequestIDHeader:  conf.RequestIDHeader,
		Redis:            previewRedis(connectCtx, conf, logger),
		Context:          ctx,
	}
	if err := modules.Load(app, modules.BuiltInModules(projectOpts)...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	app.RegisterNavItems(modules.NavLinks...)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(ctx, conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
	configuration.Use().Unload()
}

// previewRedis connects the preview cache when it is configured. A failed
// ping leaves previews in memory.
func previewRedis(ctx context.Context, conf *configuration.Configuration, logger *logrus.Logger) *redis.Client {
	if conf.Forms.PreviewBackend != "redis" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: conf.RedisURL})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable, attachment previews stay in memory")
		_ = client.Close()
		return nil
	}
	return client
}
