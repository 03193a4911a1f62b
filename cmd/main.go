package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/bestravelplan/trip-planning-service/internal/app/config"
	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
	"github.com/bestravelplan/trip-planning-service/internal/app/endpoints"
	"github.com/bestravelplan/trip-planning-service/internal/app/service"
	"github.com/bestravelplan/trip-planning-service/internal/app/transport"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/logger"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/pricing"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/pricing/edgefn"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/pricing/planapi"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/session"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/supabase"
	"github.com/bestravelplan/trip-planning-service/internal/pkg/trip"
	httptransport "github.com/bestravelplan/trip-planning-service/internal/pkg/transport/http"
)

func main() {
	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel)

	slog.Debug("config loaded successfully", slog.Any("config", cfg))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cfg config.Config) {
	endpts, resolver := makeEndpoints(ctx, &cfg)
	router := transport.MakeHTTPRouter(&cfg, endpts, resolver)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

func makeEndpoints(ctx context.Context, cfg *config.Config) (endpoints.Endpoints, httptransport.UserResolver) {
	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	// backend client shared by auth, storage and the serverless pricing path
	backend := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.Timeout)

	tripCache := trip.NewCache(redisClient)

	plannerService := service.NewPlannerService(
		makePricingChain(cfg, backend, redisClient),
		tripCache,
		cfg.Providers.EstimateExpiration,
	)
	tripsService := service.NewTripsService(backend, tripCache, cfg.Providers.TripListExpiration)
	airportService := service.NewAirportService(backend)

	resolver := func(ctx context.Context, accessToken string) (session.User, error) {
		user, err := backend.GetUser(ctx, accessToken)
		if err != nil {
			return session.User{}, err
		}

		return session.User{ID: user.ID, Email: user.Email}, nil
	}

	return endpoints.Endpoints{
		Planner: endpoints.MakePlannerEndpoint(plannerService),
		Trips:   endpoints.MakeTripsEndpoint(tripsService),
		Airport: endpoints.MakeAirportEndpoint(airportService),
	}, resolver
}

// makePricingChain registers the pricing paths in priority order: the shared
// website API first, the serverless function as fallback.
func makePricingChain(cfg *config.Config, backend *supabase.Client, redisClient *redis.Client) *pricing.Chain {
	limiter := redis_rate.NewLimiter(redisClient)

	return pricing.NewChain(
		planapi.NewProvider(pricing.ProviderConfig{
			BaseURL:      cfg.Providers.PlanAPI.BaseURL,
			Timeout:      cfg.Providers.PlanAPI.Timeout,
			RateLimitRPS: cfg.Providers.PlanAPI.RateLimitRPS,
			Limiter:      limiter,
		}),
		edgefn.NewProvider(backend, cfg.Providers.DynamicPricing.FunctionName, pricing.ProviderConfig{
			Timeout:      cfg.Providers.DynamicPricing.Timeout,
			RateLimitRPS: cfg.Providers.DynamicPricing.RateLimitRPS,
			Limiter:      limiter,
		}),
	)
}
