package config

import (
	"testing"
	"time"
)

func TestCalculateMillisecondsOfTimer(t *testing.T) {
	timer := Timer{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}
	want := uint64((24*60*60 + 2*60*60 + 3*60 + 4) * 1000)

	if got := CalculateMillisecondsOfTimer(timer); got != want {
		t.Fatalf("CalculateMillisecondsOfTimer returned %d, want %d", got, want)
	}
}

func TestCalculateBetweenTime(t *testing.T) {
	t.Run("enforces minimum interval", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{}); got != time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1s", got)
		}
	})

	t.Run("returns configured duration", func(t *testing.T) {
		if got := CalculateBetweenTime(Timer{Minutes: 1, Seconds: 30}); got != 90*time.Second {
			t.Fatalf("CalculateBetweenTime returned %s, want 1m30s", got)
		}
	})
}

func TestSetBetweenTime(t *testing.T) {
	origCfg := GetConfig()
	origDetection := GetDetectionInterval()
	origRefresh := GetDenylistRefreshInterval()
	origDetectionListeners := detectionListeners
	origRefreshListeners := denylistRefreshListeners

	t.Cleanup(func() {
		configValue.Store(origCfg)
		detectionInterval.Store(origDetection)
		denylistRefreshInterval.Store(origRefresh)
		detectionListeners = origDetectionListeners
		denylistRefreshListeners = origRefreshListeners
	})

	testCfg := Config{}
	testCfg.Detector.DetectorTimer = Timer{Minutes: 30}
	testCfg.Denylist.RefreshTimer = Timer{Minutes: 2}

	configValue.Store(testCfg)
	detectionListeners = nil
	denylistRefreshListeners = nil

	SetBetweenTime()

	if got := GetDetectionInterval(); got != 30*time.Minute {
		t.Fatalf("GetDetectionInterval returned %s, want 30m", got)
	}
	if got := GetDenylistRefreshInterval(); got != 2*time.Minute {
		t.Fatalf("GetDenylistRefreshInterval returned %s, want 2m", got)
	}
}

func TestDetectionIntervalUpdates(t *testing.T) {
	origDetection := GetDetectionInterval()
	origListeners := detectionListeners

	t.Cleanup(func() {
		detectionInterval.Store(origDetection)
		detectionListeners = origListeners
	})

	detectionInterval.Store(time.Hour)
	detectionListeners = nil

	ch := DetectionIntervalUpdates()
	first := <-ch
	if first != time.Hour {
		t.Fatalf("initial update = %s, want 1h", first)
	}

	setDetectionInterval(30 * time.Minute)
	select {
	case update := <-ch:
		if update != 30*time.Minute {
			t.Fatalf("update = %s, want 30m", update)
		}
	default:
		t.Fatal("no update delivered after interval change")
	}
}

func TestDefaultSettingsEmbedded(t *testing.T) {
	cfg := GetConfig()

	if cfg.Detector.HighVolumeThreshold != 100 {
		t.Fatalf("default threshold = %d, want 100", cfg.Detector.HighVolumeThreshold)
	}
	if cfg.Admission.AuthenticatedRate != 10 || cfg.Admission.AnonymousRate != 5 {
		t.Fatalf("default rates = %d/%d, want 10/5",
			cfg.Admission.AuthenticatedRate, cfg.Admission.AnonymousRate)
	}
	if len(cfg.Admission.SensitivePathPrefixes) == 0 {
		t.Fatal("default sensitive path prefixes are empty")
	}
	if cfg.Geo.CacheTTLHours != 24 {
		t.Fatalf("default geo cache TTL = %dh, want 24h", cfg.Geo.CacheTTLHours)
	}
}
