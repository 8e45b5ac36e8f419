package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "time/tzdata"

	"github.com/alimikegami/ppob-storefront/config"
	"github.com/alimikegami/ppob-storefront/internal/controller"
	circuitbreaker "github.com/alimikegami/ppob-storefront/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/ppob-storefront/internal/infrastructure/database/postgres"
	goodsprovider "github.com/alimikegami/ppob-storefront/internal/infrastructure/goods-provider"
	"github.com/alimikegami/ppob-storefront/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/ppob-storefront/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/ppob-storefront/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/ppob-storefront/internal/middleware"
	"github.com/alimikegami/ppob-storefront/internal/pricing"
	"github.com/alimikegami/ppob-storefront/internal/repository"
	"github.com/alimikegami/ppob-storefront/internal/service"
	"github.com/alimikegami/ppob-storefront/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	config := config.CreateNewConfig()

	midtransClient := paymentgateway.CreateMidtransClient(config)
	gateway := paymentgateway.CreateMidtransGateway(midtransClient, config.SiteURL)

	kafkaProducer := kafka.CreateKafkaProducer(config)

	db, err := postgres.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		panic(err)
	}

	traceProvider, err := tracing.InitTracing(config.TracingConfig.CollectorHost)
	if err != nil {
		fmt.Println(err)
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			fmt.Println(err)
		}
	}()

	tracer := traceProvider.Tracer("ppob-storefront")

	e := echo.New()
	g := e.Group("/api/v1")

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// span creation and naming
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			// add the context to the request
			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.Use(localmiddleware.Logger)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "", "Hello, World!")
	})

	cb := circuitbreaker.CreateCircuitBreaker("digiflazz")
	provider := goodsprovider.CreateDigiflazzClient(config, cb)

	pricingEngine := pricing.NewEngine(config.HighTierMarkup)
	catalogSvc := service.CreateCatalogService(provider, pricingEngine)

	orderRepo := repository.CreateOrderRepository(db)
	orderSvc := service.CreateOrderService(orderRepo, catalogSvc, gateway, provider, kafkaProducer, config)
	controller.CreateController(g, catalogSvc, orderSvc, localmiddleware.OperatorOnly(config.JWTSecret))

	s, err := gocron.NewScheduler()
	if err != nil {
		panic(err)
	}

	// add a job to the scheduler
	_, err = s.NewJob(
		gocron.DurationJob(
			time.Minute,
		),
		gocron.NewTask(
			orderSvc.ExpireStaleOrders,
		),
	)
	if err != nil {
		panic(err)
	}

	s.Start()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", config.ServicePort)))
}
