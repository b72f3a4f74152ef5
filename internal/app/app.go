package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alimikegami/point-of-sales/product-service/config"
	"github.com/alimikegami/point-of-sales/product-service/internal/controller"
	"github.com/alimikegami/point-of-sales/product-service/internal/event"
	"github.com/alimikegami/point-of-sales/product-service/internal/infrastructure/tracing"
	"github.com/alimikegami/point-of-sales/product-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/product-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-service/internal/service"
	"github.com/alimikegami/point-of-sales/product-service/internal/upload"
	"github.com/alimikegami/point-of-sales/product-service/pkg/response"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	DB        *mongo.Database
	Config    *config.Config
	Publisher event.Publisher
	Server    *echo.Echo

	metrics *echo.Echo
}

// NewRouter wires the product routes, the upload directory and the health
// check on a fresh echo instance.
func NewRouter(cfg *config.Config, repo repository.ProductRepository, publisher event.Publisher) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(middleware.Logger)
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Tracing(otel.Tracer(tracing.ServiceName)))

	e.Static("/uploads", cfg.UploadConfig.Dir)

	svc := service.CreateProductService(repo, publisher, *cfg)
	receiver := upload.CreateDiskReceiver(cfg.UploadConfig)
	controller.CreateProductController(e.Group("/products"), svc, receiver, middleware.AuthGate(cfg.JWTSecret), middleware.UploadLimit(cfg.UploadConfig))

	e.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	return e
}

// Start blocks until the server stops. http.ErrServerClosed is not an error.
func (app *App) Start() error {
	e := NewRouter(app.Config, repository.CreateNewMongoDBRepository(app.DB), app.Publisher)

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	if app.Config.MetricsPort != "" {
		app.metrics = echo.New()
		app.metrics.HideBanner = true
		app.metrics.GET("/metrics", echoprometheus.NewHandler())

		go func() {
			if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("component", "Start").Msg("Failed to start metrics server")
			}
		}()
	}

	app.Server = e

	log.Info().Str("port", app.Config.ServicePort).Msg("product service listening")

	if err := e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if app.metrics != nil {
		if err := app.metrics.Shutdown(ctx); err != nil {
			log.Error().Err(err).Str("component", "StopServer").Msg("Failed to stop metrics server")
		}
	}

	if app.Server == nil {
		return nil
	}

	return app.Server.Shutdown(ctx)
}
