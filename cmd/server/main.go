package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"video-share/cmd/config"
	"video-share/pkg/assets"
	"video-share/pkg/auth"
	"video-share/pkg/handlers"
	"video-share/pkg/store"
	"video-share/pkg/youtube"
)

func main() {
	config.Load()
	auth.SetSecret(config.JWTSecret)

	st, err := openStore()
	if err != nil {
		log.Fatalf("open %s store: %v", config.Backend, err)
	}
	defer st.Close()

	seeded, err := st.SeedIfEmpty(store.DefaultCatalog)
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	if seeded > 0 {
		log.Printf("seeded %d default videos", seeded)
	}

	var assetStore assets.Store
	var localDir string
	switch config.AssetStore {
	case "s3":
		assetStore, err = assets.NewS3Store(config.AWSRegion, config.S3Bucket)
	default:
		local, lerr := assets.NewLocalStore(config.UploadDir)
		if lerr == nil {
			localDir = local.Dir()
		}
		assetStore, err = local, lerr
	}
	if err != nil {
		log.Fatalf("open asset store: %v", err)
	}

	cleaner := assets.NewCleaner(assetStore)
	defer cleaner.Close()

	api := handlers.New(st, assetStore, cleaner, youtube.NewClient(config.YouTubeTimeout), config.Backend)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	if localDir != "" {
		r.Static("/uploads", localDir)
	}
	api.Routes(r)

	log.Printf("serving on :%s (backend=%s)", config.Port, config.Backend)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func openStore() (store.Store, error) {
	switch config.Backend {
	case "postgres":
		return store.NewPostgres(config.PostgresDSN)
	case "mongo":
		return store.NewMongo(config.MongoURI, config.MongoDatabase)
	default:
		return store.NewSQLite(config.SQLitePath)
	}
}
