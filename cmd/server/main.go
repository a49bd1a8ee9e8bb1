package main

import (
	"log"
	"os"

	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/render"
	"yatube/internal/repository"
	"yatube/internal/router"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	var flags config.Flags
	flagSet := pflag.NewFlagSet("yatube", pflag.ExitOnError)
	flags.AddFlags(flagSet)
	_ = flagSet.Parse(os.Args[1:])

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := flags.Apply(flagSet, &cfg); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Initialize Database
	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := db.SeedGroups(gdb, cfg.Groups()); err != nil {
		log.Fatalf("Failed to seed groups: %v", err)
	}

	var cache utils.PageCache
	if cfg.PageCacheTTL > 0 {
		lruCache, err := utils.NewLRUCache(cfg.PageCacheSize)
		if err != nil {
			log.Fatalf("Failed to create page cache: %v", err)
		}
		cache = lruCache
	}

	// Initialize Gin
	r := gin.Default()
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/media/`})))

	// Load Templates using Multitemplate to avoid collision and allow handler names
	r.HTMLRender = render.Load(cfg.TemplatesDir)

	router.Setup(r, router.Options{
		Store:         repository.NewGormStore(gdb),
		Images:        services.NewLocalImageStore(cfg.MediaDir),
		Cache:         cache,
		CacheTTL:      cfg.PageCacheTTL,
		SessionSecret: cfg.SessionSecret,
		MediaDir:      cfg.MediaDir,
		StaticDir:     cfg.StaticDir,
	})

	log.Printf("Yatube server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
