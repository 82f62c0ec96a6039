package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/snapspot/snapspot-api/internal/config"
	"github.com/snapspot/snapspot-api/internal/keywords"
	"github.com/snapspot/snapspot-api/internal/logging"
	"github.com/snapspot/snapspot-api/internal/repository/postgres"
	"github.com/snapspot/snapspot-api/internal/scorer"
	"github.com/snapspot/snapspot-api/internal/service"
	transport "github.com/snapspot/snapspot-api/internal/transport/http"
	"github.com/snapspot/snapspot-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash shipping disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	catalog := keywords.Default()
	if cfg.KeywordCatalogPath != "" {
		loaded, err := keywords.Load(cfg.KeywordCatalogPath)
		if err != nil {
			log.Printf("keyword catalog %s not loaded, using built-in: %v", cfg.KeywordCatalogPath, err)
		} else {
			catalog = loaded
		}
	}

	venueRepo := postgres.NewVenueRepo(db)
	favoriteRepo := postgres.NewFavoriteRepo(db)
	ratingRepo := postgres.NewRatingRepo(db)
	visitRepo := postgres.NewVisitRepo(db)
	userRepo := postgres.NewUserRepo(db)

	personalization := service.NewPersonalizationReader(userRepo, favoriteRepo, ratingRepo, catalog)
	searchService := service.NewSearchService(venueRepo, favoriteRepo, ratingRepo, personalization)
	ratingService := service.NewRatingService(ratingRepo, venueRepo)
	visitService := service.NewVisitService(visitRepo)
	userService := service.NewUserService(userRepo, favoriteRepo)

	scorerClient := scorer.NewHTTPClient(cfg.ScorerBaseURL, cfg.ScorerTimeout)
	recommendationService := service.NewRecommendationService(
		scorerClient, venueRepo, favoriteRepo, visitRepo, personalization, searchService)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterVenues(e, jwtManager, searchService, ratingService, recommendationService, visitService)
	transport.RegisterUsers(e, jwtManager, userService, visitService)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
