package admission

import (
	"net"
	"strings"
)

// Request is the descriptor the pipeline judges: transport metadata plus the
// authenticated user id (0 when anonymous).
type Request struct {
	RemoteAddr   string
	ForwardedFor string
	Path         string
	Method       string
	UserID       uint
}

// ClientIP resolves the originating client address. A forwarded-for chain
// wins, taking its first entry (the original client in typical proxy setups);
// otherwise the direct peer address is used. An empty result means the
// request cannot be attributed to any IP.
func (r Request) ClientIP() string {
	if r.ForwardedFor != "" {
		first := r.ForwardedFor
		if idx := strings.Index(first, ","); idx >= 0 {
			first = first[:idx]
		}
		return strings.TrimSpace(first)
	}

	if r.RemoteAddr == "" {
		return ""
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
