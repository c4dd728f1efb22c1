package currency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"expense-workflow/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

// Source is the upstream provider of exchange rates and country metadata.
type Source interface {
	// LatestRates returns currency code -> units of that currency per one unit of base
	LatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, error)
	// CountryCurrencies returns ISO 3166 alpha-2 code -> primary currency code
	CountryCurrencies(ctx context.Context) (map[string]string, error)
}

// HTTPSource talks to an exchangerate-api style endpoint ({base}/{CODE})
// and a restcountries style country listing.
type HTTPSource struct {
	client       *http.Client
	ratesBaseURL string
	countriesURL string
}

func NewHTTPSource(ratesBaseURL, countriesURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		client:       &http.Client{Timeout: timeout},
		ratesBaseURL: strings.TrimRight(ratesBaseURL, "/"),
		countriesURL: countriesURL,
	}
}

type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (s *HTTPSource) LatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	var out ratesResponse
	endpoint := s.ratesBaseURL + "/" + url.PathEscape(strings.ToUpper(base))
	if err := s.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Rates == nil {
		out.Rates = map[string]decimal.Decimal{}
	}
	return out.Rates, nil
}

type countryDoc struct {
	CCA2       string          `json:"cca2"`
	Currencies json.RawMessage `json:"currencies"`
}

func (s *HTTPSource) CountryCurrencies(ctx context.Context) (map[string]string, error) {
	var docs []countryDoc
	if err := s.getJSON(ctx, s.countriesURL, &docs); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(docs))
	for _, d := range docs {
		code, err := firstKey(d.Currencies)
		if err != nil || code == "" || d.CCA2 == "" {
			continue
		}
		out[strings.ToUpper(d.CCA2)] = strings.ToUpper(code)
	}
	return out, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperr.External("currency source request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperr.External("currency source unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.External("currency source failed", fmt.Errorf("GET %s: status %d", endpoint, resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperr.External("currency source returned malformed body", err)
	}
	return nil
}

// firstKey returns the first key of a JSON object in document order.
// A country may list several currencies; the first one is its primary.
func firstKey(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", nil
	}
	if !dec.More() {
		return "", nil
	}
	tok, err = dec.Token()
	if err != nil {
		return "", err
	}
	key, _ := tok.(string)
	return key, nil
}
