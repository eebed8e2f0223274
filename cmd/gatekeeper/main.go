package main

import (
	"github.com/charmbracelet/log"

	"gatekeeper/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal("gatekeeper terminated", "error", err)
	}
}
