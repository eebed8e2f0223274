package geo

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// GeoLiteProvider answers lookups from a local GeoLite2-City database. It is
// wired in as a fallback behind the remote API so an upstream outage degrades
// to local data instead of absent results.
type GeoLiteProvider struct {
	reader *geoip2.Reader
}

func NewGeoLiteProvider(dbPath string) (*GeoLiteProvider, error) {
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("geo: open geolite database: %w", err)
	}
	return &GeoLiteProvider{reader: reader}, nil
}

func (p *GeoLiteProvider) Lookup(ip string) (Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("geo: invalid IP %q", ip)
	}

	record, err := p.reader.City(parsed)
	if err != nil {
		return Location{}, fmt.Errorf("geo: geolite lookup: %w", err)
	}

	return Location{
		Country: optional(record.Country.Names["en"]),
		City:    optional(record.City.Names["en"]),
	}, nil
}

func (p *GeoLiteProvider) Close() error {
	return p.reader.Close()
}

// FallbackProvider consults primary first and falls back to secondary when the
// primary errors or has no data.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
}

func NewFallbackProvider(primary, secondary Provider) *FallbackProvider {
	return &FallbackProvider{primary: primary, secondary: secondary}
}

func (p *FallbackProvider) Lookup(ip string) (Location, error) {
	loc, err := p.primary.Lookup(ip)
	if err == nil && !loc.Absent() {
		return loc, nil
	}

	fallbackLoc, fallbackErr := p.secondary.Lookup(ip)
	if fallbackErr != nil {
		if err != nil {
			return Location{}, err
		}
		return Location{}, fallbackErr
	}
	return fallbackLoc, nil
}
