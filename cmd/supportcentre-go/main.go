package main

import (
	"log"
	"os"

	"github.com/supportcentre/supportcentre-go/internal/application/startup"
)

func main() {
	if err := startup.Initialize(); err != nil {
		log.Printf("Application startup failed: %v", err)
		os.Exit(1)
	}

	log.Println("Application has shut down gracefully.")
}
