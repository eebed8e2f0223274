package config

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultDetectionInterval       = time.Hour
	defaultDenylistRefreshInterval = 5 * time.Minute
)

var (
	detectionInterval        atomic.Value
	denylistRefreshInterval  atomic.Value
	detectionListeners       []chan time.Duration
	denylistRefreshListeners []chan time.Duration
	listenersMu              sync.Mutex
)

func init() {
	detectionInterval.Store(defaultDetectionInterval)
	denylistRefreshInterval.Store(defaultDenylistRefreshInterval)
}

func SetBetweenTime() {
	cfg := GetConfig()
	setDetectionInterval(calculateDetectionInterval(cfg))
	setDenylistRefreshInterval(calculateDenylistRefreshInterval(cfg))
}

func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := CalculateMillisecondsOfTimer(timer)

	// Enforce minimum interval (e.g., 1 second)
	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func CalculateMillisecondsOfTimer(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}

func GetDetectionInterval() time.Duration {
	return detectionInterval.Load().(time.Duration)
}

// DetectionIntervalUpdates returns a channel that carries the current interval
// immediately and every later change, so running loops can reschedule.
func DetectionIntervalUpdates() <-chan time.Duration {
	ch := make(chan time.Duration, 1)
	listenersMu.Lock()
	detectionListeners = append(detectionListeners, ch)
	listenersMu.Unlock()

	ch <- GetDetectionInterval()
	return ch
}

func setDetectionInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultDetectionInterval
	}

	current := GetDetectionInterval()
	if current == interval {
		return
	}

	detectionInterval.Store(interval)

	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, ch := range detectionListeners {
		select {
		case ch <- interval:
		default:
		}
	}
}

func calculateDetectionInterval(cfg Config) time.Duration {
	timer := cfg.Detector.DetectorTimer
	if timer.Days == 0 && timer.Hours == 0 && timer.Minutes == 0 && timer.Seconds == 0 {
		return defaultDetectionInterval
	}
	return CalculateBetweenTime(timer)
}

func GetDenylistRefreshInterval() time.Duration {
	return denylistRefreshInterval.Load().(time.Duration)
}

func DenylistRefreshIntervalUpdates() <-chan time.Duration {
	ch := make(chan time.Duration, 1)
	listenersMu.Lock()
	denylistRefreshListeners = append(denylistRefreshListeners, ch)
	listenersMu.Unlock()

	ch <- GetDenylistRefreshInterval()
	return ch
}

func setDenylistRefreshInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultDenylistRefreshInterval
	}

	current := GetDenylistRefreshInterval()
	if current == interval {
		return
	}

	denylistRefreshInterval.Store(interval)

	listenersMu.Lock()
	defer listenersMu.Unlock()
	for _, ch := range denylistRefreshListeners {
		select {
		case ch <- interval:
		default:
		}
	}
}

func calculateDenylistRefreshInterval(cfg Config) time.Duration {
	timer := cfg.Denylist.RefreshTimer
	if timer.Days == 0 && timer.Hours == 0 && timer.Minutes == 0 && timer.Seconds == 0 {
		return defaultDenylistRefreshInterval
	}
	return CalculateBetweenTime(timer)
}
