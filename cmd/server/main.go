package main

import (
	"context"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mulleragustin/laqueva/internal/cart"
	"github.com/mulleragustin/laqueva/internal/config"
	"github.com/mulleragustin/laqueva/internal/database"
	"github.com/mulleragustin/laqueva/internal/geo"
	"github.com/mulleragustin/laqueva/internal/queue"
	"github.com/mulleragustin/laqueva/internal/router"
	"github.com/mulleragustin/laqueva/internal/shipping"
	"github.com/mulleragustin/laqueva/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	queries := database.New(pool)

	hub := ws.NewHub()
	go hub.Run()

	sessions := cart.NewSessions()

	geoClient := geo.NewClient(cfg.GeocodeURL, cfg.RoutingURL)
	origin := geo.Coordinates{Lat: cfg.OriginLat, Lon: cfg.OriginLon}
	calc := shipping.NewCalculator(geoClient, origin, decimal.NewFromInt(cfg.RatePerKm))

	watcher := queue.NewWatcher(queries, cfg.PendingPollInterval, func(count, delta int64) {
		hub.Broadcast(ws.NewEvent(ws.EventPendingOrders, map[string]int64{
			"count": count,
			"delta": delta,
		}))
	})
	go watcher.Run(ctx)

	r := router.New(router.Deps{
		Config:   cfg,
		Queries:  queries,
		Pool:     pool,
		Hub:      hub,
		Sessions: sessions,
		Calc:     calc,
		Watcher:  watcher,
	})

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
