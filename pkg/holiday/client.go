package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Client interface {
	PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) // /PublicHolidays/{year}/{countryCode}
}

// HTTPClient is the part of *http.Client the holiday client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NagerClient reads public holidays from a date.nager.at compatible API.
type NagerClient struct {
	baseURL string
	http    HTTPClient
}

func NewNagerClient(baseURL string, httpClient HTTPClient) *NagerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &NagerClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *NagerClient) PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, countryCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned non-OK status: %d", resp.StatusCode)
	}

	var holidays []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("error decoding holiday response: %w", err)
	}
	log.Debugf("Received %d holidays for %d/%s", len(holidays), year, countryCode)

	return holidays, nil
}
