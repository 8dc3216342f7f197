package models

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Mode string

const (
	ModeAll    Mode = "all"
	ModeFlight Mode = "flight"
	ModeTrain  Mode = "train"
	ModeBus    Mode = "bus"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAll:
		return ModeAll, nil
	case ModeFlight:
		return ModeFlight, nil
	case ModeTrain:
		return ModeTrain, nil
	case ModeBus:
		return ModeBus, nil
	}
	return "", ErrInvalidMode
}

// Includes reports whether legs of type t are relevant to the mode.
func (m Mode) Includes(t TransportType) bool {
	return m == ModeAll || m == "" || string(m) == string(t)
}

// SearchFilters are display options applied after the engine returns.
type SearchFilters struct {
	SortBy   string          `json:"sortBy,omitempty"`
	MaxStops *int            `json:"maxStops,omitempty"`
	MaxPrice *float64        `json:"maxPrice,omitempty"`
	Types    []TransportType `json:"types,omitempty"`
}

// SearchRequest is the raw inbound query; origin and destination may be free text.
type SearchRequest struct {
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Date        string         `json:"date"`
	ReturnDate  *string        `json:"returnDate,omitempty"`
	Mode        Mode           `json:"mode"`
	MultiHop    bool           `json:"multiHop"`
	Filters     *SearchFilters `json:"filters,omitempty"`
}

// Validate checks required fields and that the travel dates are not in the past
// relative to now. A missing mode defaults to all.
func (r *SearchRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.Origin) == "" {
		return ErrMissingOrigin
	}
	if strings.TrimSpace(r.Destination) == "" {
		return ErrMissingDestination
	}
	if r.Date == "" {
		return ErrMissingDate
	}

	mode, err := ParseMode(string(r.Mode))
	if err != nil {
		return err
	}
	r.Mode = mode

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := validateDate(r.Date, today); err != nil {
		return err
	}
	if r.ReturnDate != nil && *r.ReturnDate != "" {
		if err := validateDate(*r.ReturnDate, today); err != nil {
			return err
		}
		if *r.ReturnDate < r.Date {
			return ErrReturnBeforeDeparture
		}
	}
	return nil
}

func validateDate(s string, today time.Time) error {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return ErrInvalidDate
	}
	if d.Before(today) {
		return ErrPastDate
	}
	return nil
}

// SearchQuery is the normalized form of a request and the basis of the cache key.
type SearchQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Mode        Mode   `json:"mode"`
	MultiHop    bool   `json:"multiHop"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrMissingDate           ValidationError = "date is required"
	ErrInvalidDate           ValidationError = "date must be formatted as YYYY-MM-DD"
	ErrPastDate              ValidationError = "date must be today or in the future"
	ErrReturnBeforeDeparture ValidationError = "return date must not be before the departure date"
	ErrInvalidMode           ValidationError = "mode must be one of all, flight, train, bus"
)
