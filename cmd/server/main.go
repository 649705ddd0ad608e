package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/tasktracker/internal/server"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	app, err := server.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
