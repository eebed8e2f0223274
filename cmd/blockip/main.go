// Command blockip adds an IP address to the denylist.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"gatekeeper/internal/database"
	"gatekeeper/internal/denylist"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <ip-address>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ip := strings.TrimSpace(flag.Arg(0))

	database.SetupDB()
	manager := denylist.NewManager(denylist.DBStore{})

	created, err := manager.Block(ip)
	if errors.Is(err, denylist.ErrInvalidIP) {
		fmt.Fprintf(os.Stderr, "Invalid IP address: %s\n", ip)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Failed to block IP", "ip", ip, "error", err)
	}

	if created {
		fmt.Printf("Blocked IP added: %s\n", ip)
	} else {
		fmt.Printf("IP already blocked: %s\n", ip)
	}
}
