package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/auth"
	"github.com/InkwellLabs/Inkwell-Backend/internal/config"
	"github.com/InkwellLabs/Inkwell-Backend/internal/content"
	"github.com/InkwellLabs/Inkwell-Backend/internal/db"
	"github.com/InkwellLabs/Inkwell-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stdout)

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db.Connect(cfg.DatabaseURL)
	log.Info().Msg("connected to database")

	auth.Init()
	content.Init()

	svc := auth.NewService(
		auth.GormUserStore{},
		auth.GormTokenStore{},
		[]byte(cfg.TokenSecret),
		cfg.TokenTTL,
		cfg.RefreshThreshold,
	)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMin)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.StoreDeadline(cfg.StoreTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", RootHandler)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"ok":true}`)
	})

	r.Mount("/auth", auth.SetupRoutes(svc, loginLimiter.Handler))
	content.RegisterRoutes(r, svc)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
