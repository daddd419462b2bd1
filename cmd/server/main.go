// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/frienderapp/friender/internal/auth"
	"github.com/frienderapp/friender/internal/database"
	"github.com/frienderapp/friender/internal/geo"
	"github.com/frienderapp/friender/internal/handlers"
	"github.com/frienderapp/friender/internal/match"
	"github.com/frienderapp/friender/internal/middleware"
	"github.com/frienderapp/friender/internal/relationship"
	"github.com/frienderapp/friender/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	auth.Init()

	store, err := database.Connect(context.Background())
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	var geoIdx geo.Index = geo.NewZipDB(store.Pool())
	if rdb, err := geo.ConnectRedis(); err != nil {
		logger.WithError(err).Warn("redis unavailable, geo lookups uncached")
	} else {
		geoIdx = geo.NewCachedIndex(geoIdx, rdb, logger)
	}

	engine := match.NewEngine(geoIdx, store, store)
	resolver := relationship.NewResolver(store, store, logger)
	uploader := storage.NewHTTPUploader("")

	srv := handlers.NewServer(logger, store, engine, resolver, geoIdx, uploader)

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(mux)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
