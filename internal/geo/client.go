// Package geo talks to the external geocoding and routing services. Both are
// opaque collaborators: the shipping calculator only sees coordinates and a
// distance in meters.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrAddressNotFound means the geocoder returned no match.
	ErrAddressNotFound = errors.New("address not found")
	// ErrNoRoute means the router could not produce a route.
	ErrNoRoute = errors.New("no route between origin and destination")
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Client is a Nominatim-style geocoder plus an OSRM-style router.
type Client struct {
	geocode *resty.Client
	routing *resty.Client
}

// NewClient builds a Client against the given service base URLs.
func NewClient(geocodeURL, routingURL string) *Client {
	newHTTP := func(base string) *resty.Client {
		return resty.New().
			SetBaseURL(base).
			SetHeader("User-Agent", "laqueva-backend/1.0").
			SetTimeout(10 * time.Second).
			SetRetryCount(1).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
			})
	}
	return &Client{
		geocode: newHTTP(geocodeURL),
		routing: newHTTP(routingURL),
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves a free-form address to coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	var results []geocodeResult
	resp, err := c.geocode.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		return Coordinates{}, fmt.Errorf("geocode: unexpected status %s", resp.Status())
	}
	if len(results) == 0 {
		return Coordinates{}, ErrAddressNotFound
	}
	var coords Coordinates
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &coords.Lat); err != nil {
		return Coordinates{}, fmt.Errorf("geocode: parse lat: %w", err)
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &coords.Lon); err != nil {
		return Coordinates{}, fmt.Errorf("geocode: parse lon: %w", err)
	}
	return coords, nil
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// Distance returns the driving distance between two points, in meters.
func (c *Client) Distance(ctx context.Context, origin, dest Coordinates) (float64, error) {
	var result routeResponse
	path := fmt.Sprintf("/route/v1/driving/%f,%f;%f,%f",
		origin.Lon, origin.Lat, dest.Lon, dest.Lat)
	resp, err := c.routing.R().
		SetContext(ctx).
		SetQueryParam("overview", "false").
		SetResult(&result).
		Get(path)
	if err != nil {
		return 0, fmt.Errorf("route request: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("route: unexpected status %s", resp.Status())
	}
	if result.Code != "Ok" || len(result.Routes) == 0 {
		return 0, ErrNoRoute
	}
	return result.Routes[0].Distance, nil
}
