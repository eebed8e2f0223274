package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"gatekeeper/internal/admission"
	"gatekeeper/internal/app/bootstrap"
	"gatekeeper/internal/app/server"
	"gatekeeper/internal/config"
	"gatekeeper/internal/denylist"
	"gatekeeper/internal/detector"
	"gatekeeper/internal/geo"
	"gatekeeper/internal/ratelimit"
	"gatekeeper/internal/support"
)

const defaultPort = 8082

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	portFlag := flag.Int("port", defaultPort, "Port to listen on")
	productionFlag := flag.Bool("production", false, "Run in production mode")
	flag.Parse()

	config.SetProductionMode(*productionFlag)
	if config.InProductionMode {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(log.DebugLevel)
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = *portFlag
	}

	bootstrap.Setup()
	cfg := config.GetConfig()

	// Geo cache and rate-limit counters live in Redis so all instances share
	// them. Without Redis the process degrades to local state instead of
	// refusing to start.
	var (
		kv      geo.KV
		counter ratelimit.Counter
	)
	redisClient, redisErr := support.GetRedisClient()
	if redisErr != nil {
		log.Warn("Redis unavailable, using process-local geo cache and rate-limit counters", "error", redisErr)
		kv = geo.NewMemoryKV()
		counter = ratelimit.NewMemoryCounter()
	} else {
		kv = geo.NewRedisKV(redisClient)
		counter = ratelimit.NewRedisCounter(redisClient)
		defer func() {
			if err := support.CloseRedisClient(); err != nil {
				log.Warn("error closing redis client", "error", err)
			}
		}()
	}

	var provider geo.Provider = geo.NewAPIProvider(
		cfg.Geo.APIBaseURL,
		time.Duration(cfg.Geo.LookupTimeoutMs)*time.Millisecond,
	)
	if dbPath := os.Getenv("GEOLITE_CITY_DB"); dbPath != "" {
		lite, err := geo.NewGeoLiteProvider(dbPath)
		if err != nil {
			log.Warn("GeoLite database unavailable, remote lookups only", "path", dbPath, "error", err)
		} else {
			defer lite.Close()
			provider = geo.NewFallbackProvider(provider, lite)
		}
	}
	geoCache := geo.NewCache(kv, provider, time.Duration(cfg.Geo.CacheTTLHours)*time.Hour)

	manager := denylist.NewManager(denylist.DBStore{})
	if err := manager.LoadCache(); err != nil {
		return fmt.Errorf("hydrate denylist cache: %w", err)
	}

	pipeline := admission.NewPipeline(
		manager,
		ratelimit.NewLimiter(counter),
		geoCache,
		admission.DBLogStore{},
		cfg.Admission.RateLimitedPrefixes,
	)

	det := detector.New(
		detector.DBLogStore{},
		detector.DBRegistry{},
		cfg.Detector.HighVolumeThreshold,
		cfg.Admission.SensitivePathPrefixes,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go manager.StartRefreshRoutine(ctx)
	go det.StartDetectionRoutine(ctx)

	return server.OpenRoutes(port, server.Deps{
		Pipeline: pipeline,
		Denylist: manager,
		Detector: det,
	})
}
