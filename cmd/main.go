package main

import (
	"log"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
)

func main() {
	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	application.Run()
}
