package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppPort         string
	StoreDriver     string
	DBDSN           string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ShareSecret     string
	ShareExpiresMin int
	FrontendBaseURL string
	PhotoMaxMB      int
	VideoMaxMB      int
	CVMaxMB         int
}

// Load reads the environment. Missing required keys panic.
func Load() Config {
	driver := strings.ToLower(get("STORE_DRIVER", "memory"))
	cfg := Config{
		AppPort:         get("APP_PORT", "8080"),
		StoreDriver:     driver,
		RedisPassword:   get("REDIS_PASSWORD", ""),
		RedisDB:         getInt("REDIS_DB", "0"),
		ShareSecret:     must("SHARE_SECRET"),
		ShareExpiresMin: getInt("SHARE_EXPIRES_MIN", "10080"),
		FrontendBaseURL: get("FRONTEND_BASE_URL", "http://localhost:3000"),
		PhotoMaxMB:      getInt("PHOTO_MAX_MB", "5"),
		VideoMaxMB:      getInt("VIDEO_MAX_MB", "50"),
		CVMaxMB:         getInt("CV_MAX_MB", "10"),
	}
	switch driver {
	case "postgres", "sqlite":
		cfg.DBDSN = must("DB_DSN")
	case "redis":
		cfg.RedisAddr = must("REDIS_ADDR")
	case "memory":
	default:
		panic("unsupported STORE_DRIVER: " + driver)
	}
	return cfg
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getInt(k, def string) int {
	n, err := strconv.Atoi(get(k, def))
	if err != nil {
		n, _ = strconv.Atoi(def)
	}
	return n
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
