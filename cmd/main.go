package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"littlecanvas-analytics/internal/config"
	"littlecanvas-analytics/internal/controller"
	"littlecanvas-analytics/internal/db"
	httpserver "littlecanvas-analytics/internal/http"
	"littlecanvas-analytics/internal/repository"
	"littlecanvas-analytics/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewConnection(ctx, cfg)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := repository.NewEventRepository(conn)
	worker := service.NewIngestWorker(repo, cfg.WorkerBufferSize, cfg.WorkerBatchSize, cfg.WorkerFlushEvery)
	eventService := service.NewEventService(repo, worker, cfg.FutureTolerance)
	eventController := controller.NewEventController(eventService)

	server := httpserver.NewServer(cfg, eventController)

	go func() {
		log.Printf("starting collector on %s", cfg.HTTPPort)
		if err := server.Listen(cfg.HTTPPort); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(); err != nil {
		log.Printf("[ERROR] server shutdown: %v", err)
	}
	worker.Shutdown()
}
