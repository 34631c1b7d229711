package main

import (
	"context"
	"log"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"

	"restaurant-forum/internal/app"
	"restaurant-forum/internal/core/config"
	"restaurant-forum/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	a.Serve("user api", cfg.App.HTTP.Host, cfg.App.HTTP.Port, router.NewAPIEngine(a.Deps()))
}
