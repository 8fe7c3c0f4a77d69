package main

import (
	"context"
	"log"

	"coffeemesh/internal/config"
	ginserver "coffeemesh/internal/infrastructure/http/gin"
	kitchenclient "coffeemesh/internal/infrastructure/http/kitchen"
	paymentsclient "coffeemesh/internal/infrastructure/http/payments"
	"coffeemesh/internal/infrastructure/persistence/postgres"
	"coffeemesh/internal/interfaces/http/handler"
	"coffeemesh/internal/interfaces/http/router"
	"coffeemesh/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	logg, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer logg.Sync()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		logg.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(context.Background(), pool); err != nil {
		logg.Fatal("ensure schema failed", logger.Error(err))
	}

	kitchen := kitchenclient.NewClient(cfg.Collaborators)
	payments := paymentsclient.NewClient(cfg.Collaborators)

	orderHandler := handler.NewOrderHandler(postgres.BeginFunc(pool), kitchen, payments, logg)
	engine := ginserver.NewEngine()
	router.RegisterOrderRoutes(engine, orderHandler)

	logg.Info("starting orders service", logger.String("addr", cfg.Server.Address()))
	server := ginserver.NewServer(cfg.Server, engine)
	if err := server.Run(); err != nil {
		logg.Fatal("server run failed", logger.Error(err))
	}
}
