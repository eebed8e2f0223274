package domain

// IPCount is a per-IP aggregate over a trailing window of the request log.
type IPCount struct {
	IPAddress string
	Count     int64
}
