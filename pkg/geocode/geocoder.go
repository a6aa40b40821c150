package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// ErrNoResult is returned when there is nothing to look up or the
// geolocation service finds no match.
var ErrNoResult = errors.New("no geocoding result")

// placesContract is the part of the geolocation search response the gateway
// relies on: an array whose entries carry lat and lon as decimal strings.
var placesContract = upstream.MustContract("geolocation.search", `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["lat", "lon"],
		"properties": {
			"lat": {"type": "string"},
			"lon": {"type": "string"}
		}
	}
}`)

// Caller performs orchestration calls.
type Caller interface {
	Call(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

// SecretResolver expands secret references in configuration values.
type SecretResolver interface {
	Resolve(ctx context.Context, value string) (string, error)
}

// Coordinates is a resolved position.
type Coordinates struct {
	Longitude float64
	Latitude  float64
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocoder resolves address text to coordinates through a LocationIQ
// compatible search endpoint.
type Geocoder struct {
	client  Caller
	url     string
	apiKey  string
	secrets SecretResolver
}

// New creates a Geocoder. apiKey may be a ${secret:name} reference; it is
// resolved through secrets on every lookup so a rotated key is picked up
// without a restart. secrets may be nil when apiKey is a literal.
func New(client Caller, searchURL, apiKey string, secrets SecretResolver) *Geocoder {
	return &Geocoder{
		client:  client,
		url:     searchURL,
		apiKey:  apiKey,
		secrets: secrets,
	}
}

// Query joins the non-empty address and location parts with ", ".
func Query(address, location string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{address, location} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Lookup returns the coordinates of the first search result for the
// address. ErrNoResult means no match; backend failures are returned as the
// upstream package's typed errors.
func (g *Geocoder) Lookup(ctx context.Context, address, location string) (Coordinates, error) {
	q := Query(address, location)
	if q == "" {
		return Coordinates{}, fmt.Errorf("%w: empty address", ErrNoResult)
	}

	key, err := g.key(ctx)
	if err != nil {
		return Coordinates{}, err
	}

	resp, err := g.client.Call(ctx, &upstream.Request{
		Backend: upstream.BackendGeolocation,
		URL:     g.url,
		Query: url.Values{
			"key":    {key},
			"q":      {q},
			"format": {"json"},
		},
	})
	if err != nil {
		return Coordinates{}, err
	}

	var places []place
	if err := placesContract.Decode(upstream.BackendGeolocation, resp.Body, &places); err != nil {
		return Coordinates{}, err
	}
	if len(places) == 0 {
		return Coordinates{}, ErrNoResult
	}

	coords, err := places[0].coordinates()
	if err != nil {
		return Coordinates{}, &upstream.ContractError{
			Backend:  upstream.BackendGeolocation,
			Contract: placesContract.Name(),
			Cause:    err,
		}
	}

	slog.DebugContext(ctx, "geocoded address",
		"results", len(places),
		"longitude", coords.Longitude,
		"latitude", coords.Latitude,
	)
	return coords, nil
}

func (g *Geocoder) key(ctx context.Context) (string, error) {
	if g.secrets == nil {
		return g.apiKey, nil
	}
	key, err := g.secrets.Resolve(ctx, g.apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to resolve geolocation api key: %w", err)
	}
	return key, nil
}

func (p place) coordinates() (Coordinates, error) {
	lon, err := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	return Coordinates{Longitude: lon, Latitude: lat}, nil
}
