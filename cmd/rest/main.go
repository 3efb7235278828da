package main

import (
	"context"
	"log"

	"github.com/Alpha-Bytes-Department/daissy-ai/internal/bootstrap"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/config"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/server"
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/tracer"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize and Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
