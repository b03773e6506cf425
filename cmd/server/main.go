package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/roster/internal/api"
	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/pkg/openapi"
)

func main() {
	specOut := flag.String("openapi", "", "Write the OpenAPI document to this file and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	if *specOut != "" {
		if err := openapi.WriteJSON(api.NewSpec(cfg), *specOut); err != nil {
			log.Fatal("openapi write failed:", err)
		}
		return
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed:", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatal("server start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed:", err)
	}
}
