package main

import (
	"context"
	"log"

	"redoma-support-be/internal/bootstrap"
	"redoma-support-be/internal/config"
	"redoma-support-be/internal/server"
	"redoma-support-be/internal/tracer"
	"redoma-support-be/pkg/database"
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

	// 4. Seed the provider catalog on an empty table
	if err := container.ProviderService.EnsureSeeded(context.Background()); err != nil {
		log.Printf("Warn: Failed to seed provider catalog: %v", err)
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Auto-Reply Worker...")
		if err := container.AutoReplyService.Consume(context.Background()); err != nil {
			log.Printf("Background Auto-Reply Error: %v", err)
		}
	}()
	if container.FeedService != nil {
		go container.FeedService.Start()
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
