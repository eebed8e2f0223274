package geo

// Location is the country/city pair resolved for an IP. Nil fields mean the
// lookup failed or the provider had no data; an all-nil Location is still a
// valid, cacheable result.
type Location struct {
	Country *string `json:"country"`
	City    *string `json:"city"`
}

func (l Location) Absent() bool {
	return l.Country == nil && l.City == nil
}
