package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dharmasatrya/tripsearch/internal/models"
	"github.com/dharmasatrya/tripsearch/internal/resilience"
	"github.com/dharmasatrya/tripsearch/internal/timezone"
)

const (
	DefaultAmadeusBaseURL = "https://test.api.amadeus.com"
	amadeusTokenPath      = "/v1/security/oauth2/token"
	amadeusOffersPath     = "/v2/shopping/flight-offers"
	amadeusPlaceholderKey = "your_amadeus_key_here"
)

type amadeusResponse struct {
	Data []amadeusOffer `json:"data"`
}

type amadeusOffer struct {
	ID          string             `json:"id"`
	Itineraries []amadeusItinerary `json:"itineraries"`
	Price       amadeusPrice       `json:"price"`
}

type amadeusItinerary struct {
	Duration string           `json:"duration"`
	Segments []amadeusSegment `json:"segments"`
}

type amadeusSegment struct {
	Departure   amadeusEndpoint `json:"departure"`
	Arrival     amadeusEndpoint `json:"arrival"`
	CarrierCode string          `json:"carrierCode"`
	Number      string          `json:"number"`
}

type amadeusEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type amadeusPrice struct {
	Currency string `json:"currency"`
	Total    string `json:"total"`
}

type AmadeusConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	MaxOffers int
	Client    *resilience.Client
	Tokens    *TokenCache
}

type AmadeusProvider struct {
	baseURL   string
	maxOffers int
	client    *resilience.Client
	tokens    *TokenCache
	enabled   bool
}

func NewAmadeusProvider(cfg AmadeusConfig) *AmadeusProvider {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultAmadeusBaseURL
	}
	if cfg.MaxOffers <= 0 {
		cfg.MaxOffers = 15
	}
	if cfg.Client == nil {
		cfg.Client = resilience.NewClient(resilience.DefaultConfig("amadeus"))
	}

	enabled := cfg.APIKey != "" && cfg.APIKey != amadeusPlaceholderKey
	if cfg.Tokens == nil && enabled {
		cfg.Tokens = NewTokenCache(TokenConfig{
			TokenURL:     base + amadeusTokenPath,
			ClientID:     cfg.APIKey,
			ClientSecret: cfg.APISecret,
		})
	}

	return &AmadeusProvider{
		baseURL:   base,
		maxOffers: cfg.MaxOffers,
		client:    cfg.Client,
		tokens:    cfg.Tokens,
		enabled:   enabled,
	}
}

func (p *AmadeusProvider) Name() string {
	return "amadeus"
}

func (p *AmadeusProvider) Type() models.TransportType {
	return models.TypeFlight
}

func (p *AmadeusProvider) Enabled() bool {
	return p.enabled
}

// Search queries live flight offers. Without credentials it returns
// ErrNotConfigured and no legs.
func (p *AmadeusProvider) Search(ctx context.Context, origin, dest, date string) ([]models.Leg, error) {
	if !p.enabled {
		return nil, NewProviderError(p.Name(), ErrNotConfigured)
	}

	token, err := p.tokens.Token(ctx)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}

	params := url.Values{}
	params.Set("originLocationCode", origin)
	params.Set("destinationLocationCode", dest)
	params.Set("departureDate", date)
	params.Set("adults", "1")
	params.Set("currencyCode", "EUR")
	params.Set("max", strconv.Itoa(p.maxOffers))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+amadeusOffersPath+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		p.tokens.Invalidate()
		return nil, NewProviderError(p.Name(), ErrAuth)
	case resp.StatusCode != http.StatusOK:
		return nil, NewProviderError(p.Name(), fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode))
	}

	var body amadeusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, NewProviderError(p.Name(), fmt.Errorf("decode offers: %w", err))
	}

	legs := make([]models.Leg, 0, len(body.Data))
	for _, offer := range body.Data {
		if leg, ok := p.toLeg(offer); ok {
			legs = append(legs, leg)
		}
	}
	return legs, nil
}

func (p *AmadeusProvider) toLeg(offer amadeusOffer) (models.Leg, bool) {
	if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
		return models.Leg{}, false
	}
	itin := offer.Itineraries[0]
	first := itin.Segments[0]
	last := itin.Segments[len(itin.Segments)-1]

	price, err := strconv.ParseFloat(offer.Price.Total, 64)
	if err != nil {
		return models.Leg{}, false
	}

	return models.Leg{
		ID:            "amadeus-" + offer.ID,
		Type:          models.TypeFlight,
		Provider:      p.Name(),
		Carrier:       first.CarrierCode,
		ServiceNumber: first.CarrierCode + first.Number,
		From:          first.Departure.IATACode,
		To:            last.Arrival.IATACode,
		DepartureTime: timezone.Localize(first.Departure.At, first.Departure.IATACode),
		ArrivalTime:   timezone.Localize(last.Arrival.At, last.Arrival.IATACode),
		DurationISO:   itin.Duration,
		Stops:         len(itin.Segments) - 1,
		Price:         price,
		Currency:      offer.Price.Currency,
		Reliability:   0.95,
	}, true
}
