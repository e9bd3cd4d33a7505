package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/Windi-Fikriyansyah/showme/internal/config"
	"github.com/Windi-Fikriyansyah/showme/internal/handlers"
	"github.com/Windi-Fikriyansyah/showme/internal/realtime"
	"github.com/Windi-Fikriyansyah/showme/internal/storage"
	"github.com/Windi-Fikriyansyah/showme/internal/wizard"
)

const mb = 1024 * 1024

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	app := handlers.NewApp(handlers.Deps{
		Store:           store,
		Hub:             hub,
		Policies:        uploadPolicies(cfg),
		ShareSecret:     cfg.ShareSecret,
		ShareExpiresMin: cfg.ShareExpiresMin,
		FrontendBaseURL: cfg.FrontendBaseURL,
	})

	log.Printf("showme listening on :%s (store: %s)", cfg.AppPort, cfg.StoreDriver)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

func openStore(cfg config.Config) (storage.KV, error) {
	switch cfg.StoreDriver {
	case "redis":
		rdb := storage.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		log.Println("Redis store connected")
		return storage.NewRedis(rdb, "showme:"), nil
	case "postgres", "sqlite":
		gdb, err := storage.OpenSQL(cfg.StoreDriver, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return storage.NewSQL(gdb)
	}
	log.Println("Using in-memory store; data is lost on restart")
	return storage.NewMemory(), nil
}

func uploadPolicies(cfg config.Config) map[wizard.FileSlot]wizard.UploadPolicy {
	p := wizard.DefaultUploadPolicies()
	limits := map[wizard.FileSlot]int{
		wizard.SlotProfilePhoto: cfg.PhotoMaxMB,
		wizard.SlotIntroVideo:   cfg.VideoMaxMB,
		wizard.SlotCV:           cfg.CVMaxMB,
	}
	for slot, n := range limits {
		if n <= 0 {
			continue
		}
		policy := p[slot]
		policy.MaxBytes = int64(n) * mb
		p[slot] = policy
	}
	return p
}
