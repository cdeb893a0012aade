package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/manzanit0/geoapp/cmd/geoapp/api"
	"github.com/manzanit0/geoapp/cmd/geoapp/state"
	"github.com/manzanit0/geoapp/cmd/geoapp/view"
	"github.com/manzanit0/geoapp/pkg/adresse"
	"github.com/manzanit0/geoapp/pkg/env"
	"github.com/manzanit0/geoapp/pkg/geo"
	"github.com/manzanit0/geoapp/pkg/geocode"
	"github.com/manzanit0/geoapp/pkg/logger"
	"github.com/manzanit0/geoapp/pkg/middleware"
	"github.com/manzanit0/geoapp/pkg/whttp"
)

const ServiceName = "geoapp"

const janitorInterval = time.Minute

func init() {
	if err := env.LoadDotEnv(); err != nil {
		panic(err)
	}

	logger.InitGlobalSlog(ServiceName, logger.ParseLevel(env.LogLevel()))
}

func main() {
	timeout, err := env.HTTPTimeout()
	if err != nil {
		panic(err)
	}

	rps, err := env.OutboundRPS()
	if err != nil {
		panic(err)
	}

	ttl, err := env.SessionTTL()
	if err != nil {
		panic(err)
	}

	concurrency, err := env.LoaderConcurrency()
	if err != nil {
		panic(err)
	}

	// Both upstream APIs share one budget of outbound requests.
	limiter := rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	httpClient := whttp.NewLoggingClient(whttp.WithTimeout(timeout), whttp.WithRateLimit(limiter))

	geoClient := geo.NewGouvClient(httpClient, env.GeoAPIURL())
	adresseClient := adresse.NewBANClient(httpClient, env.AdresseAPIURL())

	// BAN answers first; OpenStreetMap covers coordinates it cannot place.
	locator := geocode.NewLocator(adresseClient, openstreetmap.Geocoder())

	store := state.NewStore(ttl)

	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Session(int(ttl.Seconds())))
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(env.Debug()))
	r.SetHTMLTemplate(view.Templates())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api.NewPageController(store, geoClient, adresseClient, locator).Register(r)
	api.NewJSONController(store, geoClient, adresseClient).Register(r.Group("/api"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The page is served while the catalog loads; sessions pick the regions
	// up as soon as they arrive.
	go func() {
		_ = api.LoadCatalog(ctx, geoClient, store, concurrency)
	}()

	go func() {
		if err := store.RunJanitor(ctx, janitorInterval); err != nil && ctx.Err() == nil {
			slog.Error("session janitor stopped", "error", err.Error())
		}
	}()

	port := env.Port()
	srv := &http.Server{Addr: fmt.Sprintf(":%s", port), Handler: r}
	go func() {
		slog.Info(fmt.Sprintf("serving HTTP on :%s", port))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server shutdown abruptly", "error", err.Error())
		} else {
			slog.Info("server shutdown gracefully")
		}

		stop()
	}()

	// Listen for OS interrupt
	<-ctx.Done()
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err.Error())
	}

	slog.Info("server exited")
}
