package main

import (
	"log"
	netHttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"payments-module/config"
	"payments-module/db"
	"payments-module/http"
	"payments-module/logger"
	"payments-module/services"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize Kafka producer (non-fatal)
	services.InitProducer()

	// Initialize database
	if err := db.InitDB(); err != nil {
		logger.Fatal("Error initializing database: %v", err)
	}

	// Setup routes
	http.SetupRoutes()

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	addr := ":" + config.AppConfig.Port

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting on %s", addr)
		log.Fatal(netHttp.ListenAndServe(addr, nil))
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutdown signal received, closing Kafka producer...")

	// Close Kafka producer gracefully
	if err := services.Close(); err != nil {
		logger.Error("Error closing Kafka producer: %v", err)
	}

	logger.Info("Server shutdown complete")
}
