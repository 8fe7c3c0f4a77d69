package main

import (
	"log"

	kitchenapp "coffeemesh/internal/application/kitchen"
	"coffeemesh/internal/config"
	ginserver "coffeemesh/internal/infrastructure/http/gin"
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

	scheduleHandler := handler.NewScheduleHandler(kitchenapp.NewService(), logg)
	engine := ginserver.NewEngine()
	router.RegisterKitchenRoutes(engine, scheduleHandler)

	logg.Info("starting kitchen service", logger.String("addr", cfg.Kitchen.Address()))
	server := ginserver.NewServer(cfg.Kitchen, engine)
	if err := server.Run(); err != nil {
		logg.Fatal("server run failed", logger.Error(err))
	}
}
