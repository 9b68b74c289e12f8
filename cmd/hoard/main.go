package main

import (
	"log"

	"github.com/nsommier/hoard/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ hoard failed to start: %v", err)
	}
}
