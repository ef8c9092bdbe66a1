package models

// DemandEvolutionRow is one station's power balance in track order, the raw
// material of the demand report.
type DemandEvolutionRow struct {
	StationID             int64         `json:"station_id"`
	StationName           string        `json:"station_name"`
	StationCode           string        `json:"station_code"`
	TransformerCapacityKW float64       `json:"transformer_capacity_kw"`
	MaxDemandKW           float64       `json:"max_demand_kw"`
	AvailablePowerKW      float64       `json:"available_power_kw"`
	Status                StationStatus `json:"status"`
}

// RequestsPerStationRow counts a station's load requests by outcome.
type RequestsPerStationRow struct {
	StationID   int64  `json:"station_id"`
	StationName string `json:"station_name"`
	Pending     int    `json:"pending"`
	Approved    int    `json:"approved"`
	Rejected    int    `json:"rejected"`
}
