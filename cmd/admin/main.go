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

	a.Serve("admin api", cfg.App.Admin.Host, cfg.App.Admin.Port, router.NewAdminEngine(a.Deps()))
}
