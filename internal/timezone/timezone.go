package timezone

import (
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

const Layout = "2006-01-02T15:04:05-07:00"

var stationZones = map[string]string{
	// Western Europe
	"LHR": "Europe/London", // London - Heathrow
	"LGW": "Europe/London", // London - Gatwick
	"STN": "Europe/London", // London - Stansted
	"LTN": "Europe/London", // London - Luton
	"LCY": "Europe/London", // London - City
	"MAN": "Europe/London", // Manchester
	"EDI": "Europe/London", // Edinburgh
	"DUB": "Europe/Dublin", // Dublin
	"LIS": "Europe/Lisbon", // Lisbon
	"KEF": "Atlantic/Reykjavik",

	// Central Europe
	"CDG": "Europe/Paris", // Paris - Charles de Gaulle
	"ORY": "Europe/Paris", // Paris - Orly
	"PAR": "Europe/Paris", // Paris - city code used by rail and bus tables
	"LYO": "Europe/Paris", // Lyon
	"BCN": "Europe/Madrid",
	"MAD": "Europe/Madrid",
	"AMS": "Europe/Amsterdam",
	"BRU": "Europe/Brussels",
	"FRA": "Europe/Berlin",
	"MUC": "Europe/Berlin",
	"BER": "Europe/Berlin",
	"ZRH": "Europe/Zurich",
	"VIE": "Europe/Vienna",
	"PRG": "Europe/Prague",
	"WAW": "Europe/Warsaw",
	"BUD": "Europe/Budapest",
	"FCO": "Europe/Rome",
	"CIA": "Europe/Rome",
	"MXP": "Europe/Rome",
	"LIN": "Europe/Rome",
	"BGY": "Europe/Rome",
	"MIL": "Europe/Rome",
	"CPH": "Europe/Copenhagen",
	"OSL": "Europe/Oslo",
	"ARN": "Europe/Stockholm",
	"NYO": "Europe/Stockholm",

	// Eastern Europe
	"ATH": "Europe/Athens",
	"BUC": "Europe/Bucharest",
	"HEL": "Europe/Helsinki",
	"RIX": "Europe/Riga",
	"TLL": "Europe/Tallinn",
	"VNO": "Europe/Vilnius",
	"KBP": "Europe/Kyiv",
	"IST": "Europe/Istanbul",
	"SAW": "Europe/Istanbul",
	"SVO": "Europe/Moscow",
	"DME": "Europe/Moscow",
	"VKO": "Europe/Moscow",
	"LED": "Europe/Moscow",

	// Caucasus and Central Asia
	"TBS": "Asia/Tbilisi",
	"EVN": "Asia/Yerevan",
	"GYD": "Asia/Baku",
	"ALA": "Asia/Almaty",
	"TAS": "Asia/Tashkent",

	// Middle East and Asia
	"DXB": "Asia/Dubai",
	"DWC": "Asia/Dubai",
	"SIN": "Asia/Singapore",
	"HKG": "Asia/Hong_Kong",
	"NRT": "Asia/Tokyo",
	"HND": "Asia/Tokyo",
	"BKK": "Asia/Bangkok",
	"DMK": "Asia/Bangkok",
	"DPS": "Asia/Makassar", // Bali - Ngurah Rai

	// North America
	"JFK": "America/New_York",
	"EWR": "America/New_York",
	"LGA": "America/New_York",
	"LAX": "America/Los_Angeles",
	"ORD": "America/Chicago",
	"MDW": "America/Chicago",
	"YYZ": "America/Toronto",
	"YTZ": "America/Toronto",
}

var (
	locMu  sync.RWMutex
	locMap = map[string]*time.Location{}
)

// ZoneName returns the IANA zone of a station, UTC when unknown.
func ZoneName(code string) string {
	if tz, ok := stationZones[strings.ToUpper(code)]; ok {
		return tz
	}
	return "UTC"
}

func LocationByStation(code string) *time.Location {
	name := ZoneName(code)

	locMu.RLock()
	loc, ok := locMap[name]
	locMu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}

	locMu.Lock()
	locMap[name] = loc
	locMu.Unlock()
	return loc
}

// LocalTime builds the wall-clock time minutesAfterMidnight into date at the station.
func LocalTime(date string, minutesAfterMidnight int, code string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", date, LocationByStation(code))
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(time.Duration(minutesAfterMidnight) * time.Minute), nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Localize re-renders a timestamp with the station offset. Values without an
// offset are read as station wall-clock time. Unparseable input is returned as is.
func Localize(timeStr string, code string) string {
	loc := LocationByStation(code)

	if t, err := time.Parse(time.RFC3339, timeStr); err == nil {
		return Format(t.In(loc))
	}

	simpleFormats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
	}
	for _, format := range simpleFormats {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return Format(t)
		}
	}
	return timeStr
}
