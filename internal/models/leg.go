package models

type TransportType string

const (
	TypeFlight TransportType = "flight"
	TypeTrain  TransportType = "train"
	TypeBus    TransportType = "bus"
)

// Leg is one directly bookable travel segment.
type Leg struct {
	ID              string        `json:"id"`
	Type            TransportType `json:"type"`
	Provider        string        `json:"provider"`
	Carrier         string        `json:"carrier"`
	ServiceNumber   string        `json:"serviceNumber"`
	From            string        `json:"from"`
	To              string        `json:"to"`
	DepartureTime   string        `json:"departureTime"`
	ArrivalTime     string        `json:"arrivalTime"`
	DurationMinutes int           `json:"durationMinutes"`
	DurationISO     string        `json:"durationISO"`
	Stops           int           `json:"stops"`
	Price           float64       `json:"price"`
	Currency        string        `json:"currency"`
	Reliability     float64       `json:"reliability"`
	Score           float64       `json:"score"`
	BookingURL      string        `json:"bookingUrl"`
}

// DedupKey identifies the same physical service offered by several providers.
func (l Leg) DedupKey() string {
	return l.Carrier + "|" + l.ServiceNumber + "|" + l.DepartureTime
}
