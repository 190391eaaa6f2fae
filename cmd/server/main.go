package main

import (
	"fmt"
	"log"

	"inspection-portal/internal/config"
	"inspection-portal/internal/database"
	"inspection-portal/internal/server"
)

func main() {
	cfg := config.Load()
	db := database.Open(cfg.DBDSN)

	r := server.NewRouter(cfg, db)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
