package main

import (
	"log"
	"os"

	"trainingevents/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}
