package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"paperform/internal/api"
	"paperform/internal/config"
	"paperform/internal/gateway"
	"paperform/internal/services"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	gw, err := gateway.New(ctx, cfg)
	if err != nil {
		log.Fatalf("create model gateway: %v", err)
	}
	if closer, ok := gw.(io.Closer); ok {
		defer closer.Close()
	}

	screenshotService := services.NewScreenshotService(cfg.ScreenshotTimeout)
	sourceService := services.NewSourceService(cfg.UploadDir, screenshotService)
	converterService := services.NewConverterService(gw, cfg.StageTimeout)
	resultSink := services.NewResultSink(cfg.ResultsDir)

	server := api.NewServer(converterService, sourceService, resultSink)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("listening on :%s", port)

	// Link conversions hold the connection through a browser capture and
	// two model calls, so the write timeout covers all three.
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ScreenshotTimeout + 2*cfg.StageTimeout + 30*time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
