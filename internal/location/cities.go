package location

// cityCodes maps lower-case city names to station codes; the first code is primary.
var cityCodes = map[string][]string{
	"london":        {"LHR", "LGW", "STN", "LTN", "LCY"},
	"paris":         {"CDG", "ORY"},
	"barcelona":     {"BCN"},
	"madrid":        {"MAD"},
	"amsterdam":     {"AMS"},
	"berlin":        {"BER"},
	"rome":          {"FCO", "CIA"},
	"milan":         {"MXP", "LIN", "BGY"},
	"frankfurt":     {"FRA"},
	"munich":        {"MUC"},
	"zurich":        {"ZRH"},
	"vienna":        {"VIE"},
	"brussels":      {"BRU"},
	"lisbon":        {"LIS"},
	"prague":        {"PRG"},
	"warsaw":        {"WAW"},
	"budapest":      {"BUD"},
	"athens":        {"ATH"},
	"istanbul":      {"IST", "SAW"},
	"dubai":         {"DXB", "DWC"},
	"new york":      {"JFK", "EWR", "LGA"},
	"los angeles":   {"LAX"},
	"chicago":       {"ORD", "MDW"},
	"toronto":       {"YYZ", "YTZ"},
	"moscow":        {"SVO", "DME", "VKO"},
	"st petersburg": {"LED"},
	"kyiv":          {"KBP"},
	"riga":          {"RIX"},
	"tallinn":       {"TLL"},
	"vilnius":       {"VNO"},
	"helsinki":      {"HEL"},
	"oslo":          {"OSL"},
	"stockholm":     {"ARN", "NYO"},
	"copenhagen":    {"CPH"},
	"reykjavik":     {"KEF"},
	"dublin":        {"DUB"},
	"edinburgh":     {"EDI"},
	"manchester":    {"MAN"},
	"singapore":     {"SIN"},
	"hong kong":     {"HKG"},
	"tokyo":         {"NRT", "HND"},
	"bangkok":       {"BKK", "DMK"},
	"bali":          {"DPS"},
	"tbilisi":       {"TBS"},
	"yerevan":       {"EVN"},
	"baku":          {"GYD"},
	"almaty":        {"ALA"},
	"tashkent":      {"TAS"},
}
