package data

import _ "embed"

//go:embed flixbus_routes.json
var FlixBusRoutes []byte

//go:embed trainline_routes.json
var TrainlineRoutes []byte
