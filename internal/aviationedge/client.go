// Package aviationedge resolves city names and coordinates to IATA-style
// city codes through the aviation-edge public API.
package aviationedge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://aviation-edge.com/v2/public"

	// nearbyDistanceKM is the search radius around a geotag.
	nearbyDistanceKM = 100
)

type Client struct {
	http    *http.Client
	baseURL string
	key     string
}

func New(httpClient *http.Client, baseURL, key string) (*Client, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("aviationedge: missing api key")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
	}, nil
}

type cityRecord struct {
	CodeIataCity string `json:"codeIataCity"`
}

type autocompleteResponse struct {
	Cities []cityRecord `json:"cities"`
}

// CityToCode resolves a city name to its IATA city code. An unknown city
// is ("", nil); only transport and decode problems are errors.
func (c *Client) CityToCode(ctx context.Context, city string) (string, error) {
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("city", strings.ToLower(strings.TrimSpace(city)))

	raw, err := c.get(ctx, "/autocomplete", q)
	if err != nil {
		return "", err
	}
	var out autocompleteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// The API answers lookup misses with a non-list error object.
		return "", nil
	}
	if len(out.Cities) == 0 {
		return "", nil
	}
	return out.Cities[0].CodeIataCity, nil
}

// GPSToCode resolves coordinates to the IATA city code of the nearest
// airport within the search radius. No airport nearby is ("", nil).
func (c *Client) GPSToCode(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("key", c.key)
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("distance", strconv.Itoa(nearbyDistanceKM))

	raw, err := c.get(ctx, "/nearby", q)
	if err != nil {
		return "", err
	}
	var out []cityRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", nil
	}
	if len(out) == 0 {
		return "", nil
	}
	return out[0].CodeIataCity, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("aviationedge http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
