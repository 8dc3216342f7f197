package models

// MultiHopResult is a cheaper itinerary through one intermediate hub.
type MultiHopResult struct {
	Path        []string `json:"path"`
	TotalPrice  float64  `json:"totalPrice"`
	Legs        []Leg    `json:"legs"`
	Saving      float64  `json:"saving"`
	BookingURLs []string `json:"bookingUrls"`
}

type ReturnTrip struct {
	Results  []Leg           `json:"results"`
	MultiHop *MultiHopResult `json:"multiHop,omitempty"`
}

type SearchResponse struct {
	Origin          string          `json:"origin"`
	Destination     string          `json:"destination"`
	OriginCity      string          `json:"originCity"`
	DestinationCity string          `json:"destinationCity"`
	Date            string          `json:"date"`
	Mode            Mode            `json:"mode"`
	Results         []Leg           `json:"results"`
	MultiHop        *MultiHopResult `json:"multiHop,omitempty"`
	Count           int             `json:"count"`
	Cached          bool            `json:"cached"`
	Demo            bool            `json:"demo"`
	ResponseMs      int64           `json:"responseMs"`
	ReturnTrip      *ReturnTrip     `json:"returnTrip,omitempty"`
}

// Clone returns a deep copy. Responses served from the in-process cache tier
// share one snapshot, so callers always receive a clone.
func (r *SearchResponse) Clone() *SearchResponse {
	if r == nil {
		return nil
	}
	out := *r
	out.Results = cloneLegs(r.Results)
	out.MultiHop = r.MultiHop.Clone()
	if r.ReturnTrip != nil {
		rt := ReturnTrip{
			Results:  cloneLegs(r.ReturnTrip.Results),
			MultiHop: r.ReturnTrip.MultiHop.Clone(),
		}
		out.ReturnTrip = &rt
	}
	return &out
}

func (m *MultiHopResult) Clone() *MultiHopResult {
	if m == nil {
		return nil
	}
	out := *m
	out.Path = append([]string(nil), m.Path...)
	out.Legs = cloneLegs(m.Legs)
	out.BookingURLs = append([]string(nil), m.BookingURLs...)
	return &out
}

func cloneLegs(legs []Leg) []Leg {
	if legs == nil {
		return nil
	}
	out := make([]Leg, len(legs))
	copy(out, legs)
	return out
}

type LocationResponse struct {
	Input string `json:"input"`
	Code  string `json:"code"`
	City  string `json:"city"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
