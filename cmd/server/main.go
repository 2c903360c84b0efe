package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/benbeisheim/crimson-chess/internal/bot"
	"github.com/benbeisheim/crimson-chess/internal/config"
	"github.com/benbeisheim/crimson-chess/internal/controller"
	"github.com/benbeisheim/crimson-chess/internal/service"
	"github.com/benbeisheim/crimson-chess/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	if cfg.DataDir == "" {
		log.Warn("CRIMSON_DATA_DIR not set, player stats are kept in memory")
	}

	app := fiber.New(fiber.Config{
		AppName: "crimson-chess",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	botConfig := bot.DefaultConfig()
	botConfig.Randomness = cfg.BotRandomness
	botConfig.Aggression = cfg.BotAggression
	gameManager := service.NewGameManager(store)
	gameService := service.NewGameService(gameManager, store, service.Defaults{
		Bot:       botConfig,
		BotDelay:  cfg.BotDelay,
		BotJitter: cfg.BotJitter,
	})

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)
	controller.RegisterRoutes(app, gameController, wsController, splitOrigins(cfg.AllowOrigins))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorf("listen: %v", err)
	}

	gameManager.Close()
	if err := store.Close(); err != nil {
		log.Errorf("close storage: %v", err)
	}
}

func splitOrigins(origins string) []string {
	out := []string{}
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
