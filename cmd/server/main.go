package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/jomkit/kitchensync/internal/config"
	"github.com/jomkit/kitchensync/internal/database"
	"github.com/jomkit/kitchensync/internal/expiration"
	"github.com/jomkit/kitchensync/internal/handler"
	"github.com/jomkit/kitchensync/internal/notifier"
	"github.com/jomkit/kitchensync/internal/queue"
	"github.com/jomkit/kitchensync/internal/repository"
	"github.com/jomkit/kitchensync/internal/reservation"
	"github.com/jomkit/kitchensync/internal/router"
	"github.com/jomkit/kitchensync/internal/runtimeparams"
	"github.com/jomkit/kitchensync/internal/seed"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("info: .env not found; using defaults/env")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer db.Close()

	if strings.EqualFold(os.Getenv("SEED_ON_STARTUP"), "true") {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := seed.Run(seedCtx, db, cfg.BcryptCost); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		cancel()
		log.Println("seed: fixture data ready")
	}

	ingredients := repository.NewIngredientRepo(db)
	menuItems := repository.NewMenuItemRepo(db)
	recipes := repository.NewRecipeRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)

	hub := notifier.NewHub()
	params := runtimeparams.New(cfg.ReservationTTLSeconds, cfg.ReservationWarningSeconds)

	engine := &reservation.Engine{
		DB:           db,
		Ingredients:  ingredients,
		MenuItems:    menuItems,
		Recipes:      recipes,
		Reservations: reservations,
		Params:       params,
		Notifier:     hub,
	}

	sweeper := expiration.New(db, reservations, hub, time.Duration(cfg.ExpirationIntervalSeconds)*time.Second)
	if cfg.EnableInProcessExpiration && cfg.Env != "test" {
		ctx, stop := context.WithCancel(context.Background())
		defer stop()
		sweeper.Start(ctx)
	}

	go func() {
		if err := queue.StartCommittedConsumer(cfg.RabbitMQURL); err != nil {
			log.Printf("reservation-consumer: stopped: %v", err)
		}
	}()

	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("warning: redis unavailable; caching and rate limiting disabled")
	}

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, users),
		Ingredient:  handler.NewIngredientHandler(db, ingredients, hub),
		Menu:        handler.NewMenuHandler(menuItems, recipes, ingredients),
		Reservation: handler.NewReservationHandler(engine, reservations, cfg.RabbitMQURL),
		Admin:       handler.NewAdminHandler(params),
		Internal:    handler.NewInternalHandler(cfg.InternalExpireSecret, sweeper),
		WS:          handler.NewWSHandler(hub),
	}

	e := echo.New()
	router.Register(e, handlers, cfg.JWTSecret, cacheCfg, rateCfg, rdb)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
