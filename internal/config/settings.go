package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Admission struct {
		SensitivePathPrefixes []string `json:"sensitive_path_prefixes"`
		RateLimitedPrefixes   []string `json:"rate_limited_prefixes"`
		AuthenticatedRate     int      `json:"authenticated_rate_per_minute"`
		AnonymousRate         int      `json:"anonymous_rate_per_minute"`
	} `json:"admission"`

	Detector struct {
		HighVolumeThreshold int   `json:"high_volume_threshold"`
		DetectorTimer       Timer `json:"detector_timer"`
	} `json:"detector"`

	Denylist struct {
		RefreshTimer Timer `json:"refresh_timer"`
	} `json:"denylist"`

	Geo struct {
		APIBaseURL      string `json:"api_base_url"`
		CacheTTLHours   uint32 `json:"cache_ttl_hours"`
		LookupTimeoutMs uint32 `json:"lookup_timeout_ms"`
	} `json:"geo"`
}

type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value

	InProductionMode bool
)

func init() {
	cfg := Config{}
	if err := json.Unmarshal(defaultConfig, &cfg); err == nil {
		configValue.Store(cfg)
	} else {
		configValue.Store(Config{})
	}
}

func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			err = os.MkdirAll("data", os.ModePerm)
			if err != nil {
				log.Error("Error creating directory for settings file:", err)
				return
			}

			err = os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm)
			if err != nil {
				log.Error("Error writing default settings file:", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", err)
			return
		}
	}

	var newConfig Config
	err = json.Unmarshal(data, &newConfig)
	if err != nil {
		log.Error("Error unmarshalling settings file:", err)
		return
	}

	configValue.Store(newConfig)
	SetBetweenTime()

	log.Debug("Settings file loaded successfully")
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

func SetProductionMode(production bool) {
	InProductionMode = production
}
