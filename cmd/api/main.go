package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"sheetclean/adapters/api"
	"sheetclean/internal/config"
	"sheetclean/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns the container so its deferred shutdown happens on every exit path
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	c, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer func() {
		if err := c.Shutdown(); err != nil {
			c.Logger.Error("shutdown failed: %v", err)
		}
	}()

	if cfg.Database.Enabled() {
		db, err := container.ConnectDatabase(cfg)
		if err != nil {
			return fmt.Errorf("database unavailable: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = c.InitWithDatabase(ctx, db)
		cancel()
		if err != nil {
			db.Close()
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	} else {
		c.Logger.Warn("DATABASE_URL not set, table storage disabled")
	}

	server := api.NewServer(c.CleanService, c.Logger)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
