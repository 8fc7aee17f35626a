package main

import (
	"context"
	"fmt"
	"os"

	"github.com/deploylab/bluegreen/pkg/bluegreen"
	"github.com/deploylab/bluegreen/pkg/bluegreen/demo"
)

func main() {
	logger, err := bluegreen.NewLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server, err := demo.NewServer(demo.Config{
		Message: demo.GreenMessage,
		Port:    port,
	}, logger)
	if err != nil {
		logger.Error(err, "failed to create server")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := server.Start(ctx); err != nil {
		logger.Error(err, "failed to start server")
		os.Exit(1)
	}
	if err := server.WaitForShutdown(ctx); err != nil {
		logger.Error(err, "shutdown failed")
		os.Exit(1)
	}
}
