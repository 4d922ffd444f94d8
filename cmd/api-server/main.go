package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/careflow/demo-api/internal/api"
	"github.com/careflow/demo-api/internal/booking"
	"github.com/careflow/demo-api/internal/config"
	"github.com/careflow/demo-api/internal/messaging"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg := config.Load()
	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	if cfg.APIKey == "" {
		// confirm absence only, never the value
		log.Println("warning: API_KEY is not set, all requests will be 401")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := booking.NewStore()
	store.Seed(time.Now(), cfg.SlotDays)
	log.Printf("seeded demo slots for %s", time.Now().AddDate(0, 0, cfg.SlotDays).Format("2006-01-02"))

	router := api.NewRouter(api.RouterConfig{
		Bookings: booking.NewService(store),
		Messages: messaging.NewService(),
		Store:    store,
		APIKey:   cfg.APIKey,
		SlotDays: cfg.SlotDays,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
