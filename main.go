package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"frontend-go/config"
	"frontend-go/controllers"
	"frontend-go/middleware"
	"frontend-go/routes"
	"frontend-go/services"
	"frontend-go/views"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	config.InitLogger()

	var exporter *services.Exporter
	if config.ExportEnabled() {
		if err := config.LoadAWSConfig(); err != nil {
			log.Fatal("Failed to initialise AWS: ", err)
		}
		exporter = services.NewS3Exporter()
	}

	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	trustedProxies := []string{"127.0.0.1", "::1"}
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies: ", err)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store := cookie.NewStore([]byte(config.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("session", store))

	api := services.NewAPIClient(config.BackendURL, nil)

	pages := views.NewRegistry(config.PageIdleTTL)
	go pages.Run(ctx)

	limiter := middleware.NewRateLimiter(config.AuthRateRPS, config.AuthRateBurst)
	go limiter.Run(ctx)

	ctl := controllers.New(controllers.Options{
		API:      api,
		Pages:    pages,
		Exporter: exporter,
		ChatURL:  config.ChatURL,
		Origins:  config.AllowedOrigins,
	})
	routes.SetupRoutes(r, ctl, api, limiter)

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: r,
	}

	go func() {
		config.Log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: ", err)
		}
	}()

	<-ctx.Done()
	config.Log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Log.Error("server shutdown error: ", err)
	}
	pages.Close()
}
