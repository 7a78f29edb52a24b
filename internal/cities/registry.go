package cities

import "strings"

// City describes one tracked city: its canonical name, IANA timezone, and
// fallback coordinates used when the store has none for it.
type City struct {
	Name     string
	Timezone string
	Lat      float64
	Lon      float64
}

// Registry is the fixed set of cities the system tracks, keyed by canonical
// name. Aliases map known alternate spellings to their canonical name.
type Registry struct {
	byName  map[string]City
	aliases map[string]string
	names   []string
}

// NewRegistry builds a registry from the given cities and alias pairs.
// Canonical names must be unique.
func NewRegistry(list []City, aliases map[string]string) *Registry {
	r := &Registry{
		byName:  make(map[string]City, len(list)),
		aliases: make(map[string]string, len(aliases)),
		names:   make([]string, 0, len(list)),
	}
	for _, c := range list {
		if _, dup := r.byName[c.Name]; dup {
			continue
		}
		r.byName[c.Name] = c
		r.names = append(r.names, c.Name)
	}
	for alias, canonical := range aliases {
		r.aliases[strings.ToLower(alias)] = canonical
	}
	return r
}

// DefaultRegistry returns the registry for the ten tracked cities.
func DefaultRegistry() *Registry {
	return NewRegistry([]City{
		{Name: "Tokyo", Timezone: "Asia/Tokyo", Lat: 35.6762, Lon: 139.6503},
		{Name: "Mumbai", Timezone: "Asia/Kolkata", Lat: 19.0760, Lon: 72.8777},
		{Name: "London", Timezone: "Europe/London", Lat: 51.5074, Lon: -0.1278},
		{Name: "Sydney", Timezone: "Australia/Sydney", Lat: -33.8688, Lon: 151.2093},
		{Name: "New York", Timezone: "America/New_York", Lat: 40.7128, Lon: -74.0060},
		{Name: "Paris", Timezone: "Europe/Paris", Lat: 48.8566, Lon: 2.3522},
		{Name: "Dubai", Timezone: "Asia/Dubai", Lat: 25.2048, Lon: 55.2708},
		{Name: "Singapore", Timezone: "Asia/Singapore", Lat: 1.3521, Lon: 103.8198},
		{Name: "Toronto", Timezone: "America/Toronto", Lat: 43.6532, Lon: -79.3832},
		{Name: "São Paulo", Timezone: "America/Sao_Paulo", Lat: -23.5505, Lon: -46.6333},
	}, map[string]string{
		"Sao Paulo": "São Paulo",
	})
}

// Lookup returns the city registered under the canonical name.
func (r *Registry) Lookup(name string) (City, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names returns the canonical city names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Timezone returns the IANA timezone for a canonical name, or "" if the city
// is unknown or has no timezone registered.
func (r *Registry) Timezone(name string) string {
	return r.byName[name].Timezone
}

// FallbackCoordinates returns the static coordinates for a canonical name.
// The match is exact first, then case-insensitive.
func (r *Registry) FallbackCoordinates(name string) (lat, lon float64, ok bool) {
	if c, found := r.byName[name]; found {
		return c.Lat, c.Lon, true
	}
	for _, c := range r.byName {
		if strings.EqualFold(c.Name, name) {
			return c.Lat, c.Lon, true
		}
	}
	return 0, 0, false
}
