package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	csadmin "cs-admin"
	"cs-admin/internal/crash"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	var configPath string
	flag.StringVar(&configPath, "config", "configs/config.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local development; environment wins over file.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	server, err := csadmin.New(configPath)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	// Stdin doubles as the server console.
	crash.SafeGoroutine("console", func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if !server.DispatchConsole(line) {
				log.Printf("Unknown command: %s", line)
			}
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	server.Stop()
}
