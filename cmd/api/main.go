package main

import (
	"fmt"
	"log"

	"accountd/internal/account"
	"accountd/internal/config"
	"accountd/internal/db"
	httpserver "accountd/internal/http"
	"accountd/internal/identity"
	"accountd/internal/logging"
	"accountd/internal/org"
	"accountd/internal/store"
)

func main() {
	cfg := config.Load()
	logger := logging.NewDefault()

	gdb := db.Connect(cfg.DSN)
	db.AutoMigrate(gdb)

	st := store.New(gdb)
	resolver := identity.NewClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
	accounts := account.NewService(st, resolver, logger)
	orgs := org.NewService(st, logger)

	r := httpserver.NewRouter(accounts, orgs, cfg.IdentityJWTSecret)
	log.Printf("server listening on :%s", cfg.AppPort)
	if err := r.Run(fmt.Sprintf(":%s", cfg.AppPort)); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
