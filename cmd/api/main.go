package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kushal-prime/kushalwearback/api/routes"
	internalauth "github.com/Kushal-prime/kushalwearback/internal/auth"
	"github.com/Kushal-prime/kushalwearback/internal/cart"
	"github.com/Kushal-prime/kushalwearback/internal/orders"
	"github.com/Kushal-prime/kushalwearback/internal/products"
	"github.com/Kushal-prime/kushalwearback/internal/users"
	"github.com/Kushal-prime/kushalwearback/internal/wishlist"
	authpkg "github.com/Kushal-prime/kushalwearback/pkg/auth"
	"github.com/Kushal-prime/kushalwearback/pkg/config"
	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/logger"
	"github.com/Kushal-prime/kushalwearback/pkg/migrate"
	"github.com/Kushal-prime/kushalwearback/pkg/redis"
	"github.com/Kushal-prime/kushalwearback/pkg/security"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kushalwear-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: "kushalwear-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := context.Background()

	dbClient, err := db.New(cfg.DB, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, dbClient, logg); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		if err := redisClient.Ping(ctx); err != nil {
			logg.Warn(ctx, "redis unreachable, rate limiting disabled")
			redisClient = nil
		}
	}

	tokens, err := authpkg.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	hasher := security.NewHasher(cfg.Password)

	userRepo := users.NewRepository(dbClient)
	productRepo := products.NewRepository(dbClient)
	cartRepo := cart.NewRepository(dbClient)
	wishlistRepo := wishlist.NewRepository(dbClient)
	orderRepo := orders.NewRepository(dbClient)

	authSvc, err := internalauth.NewService(internalauth.ServiceParams{
		Users:  userRepo,
		Hasher: hasher,
		Tokens: tokens,
	})
	if err != nil {
		return err
	}
	productSvc, err := products.NewService(products.ServiceParams{Products: productRepo})
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cart.ServiceParams{
		Carts:    cartRepo,
		Products: productRepo,
	})
	if err != nil {
		return err
	}
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		Wishlists: wishlistRepo,
		Products:  productRepo,
		Carts:     cartSvc,
	})
	if err != nil {
		return err
	}
	orderSvc, err := orders.NewService(orders.ServiceParams{
		Orders: orderRepo,
		Carts:  cartSvc,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.RouterParams{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Tokens:   tokens,
		Auth:     authSvc,
		Products: productSvc,
		Cart:     cartSvc,
		Wishlist: wishlistSvc,
		Orders:   orderSvc,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logg.Info(ctx, "server stopped")
	return nil
}
