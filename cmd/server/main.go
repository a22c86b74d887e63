package main

import (
	"fmt"
	"log"

	"fieldops/internal/config"
	"fieldops/internal/database"
	"fieldops/internal/handlers"
	"fieldops/internal/notify"
	"fieldops/internal/server"
	"fieldops/internal/storage"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	if err := database.SeedCatalog(database.DB, cfg.CatalogPath); err != nil {
		log.Printf("failed to seed catalog: %v", err)
	}

	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to init photo storage: %v", err)
	}

	handlers.Setup(
		store,
		notify.NewPusher(cfg.PushFuncURL),
		notify.NewEmailSender(cfg.SMTPAddr, cfg.SMTPFrom),
	)

	r := server.NewRouter(cfg, store)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
