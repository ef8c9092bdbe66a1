package energy

import (
	"math"

	"linea1-bknd/internal/models"
)

// Round2 rounds to two decimals, the resolution every kW figure is stored at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeMD derives maximum demand from installed power and demand factor:
// round(piKW * fd, 2). piKW must be >= 0 and fd > 0; defaulting fd to 1.0 is
// the caller's responsibility, not this function's.
func ComputeMD(piKW, fd float64) (float64, error) {
	if piKW < 0 {
		return 0, &InvalidInputError{Field: "pi_kw", Message: "must be >= 0"}
	}
	if fd <= 0 {
		return 0, &InvalidInputError{Field: "fd", Message: "must be > 0"}
	}
	return Round2(piKW * fd), nil
}

// AggregateBarPower sums circuit power over a bar. Installed power counts
// every circuit that is not inactive (reserve circuits hold real copper);
// demand counts only operative_normal circuits. Sub-circuits are a breakdown
// of their parent's load and never enter these totals. The result is a pure
// function of the input set, insensitive to ordering.
func AggregateBarPower(bar *models.Bar, circuits []*models.Circuit) models.BarPowerSummary {
	var totalPI, totalMD float64
	for _, c := range circuits {
		if c.Status == models.CircuitInactive {
			continue
		}
		totalPI += c.PIKw
		if c.Status == models.CircuitOperativeNormal {
			totalMD += c.MDKw
		}
	}
	return models.BarPowerSummary{
		BarID:                 bar.ID,
		TotalInstalledPowerKW: Round2(totalPI),
		TotalMaxDemandKW:      Round2(totalMD),
		MaxBoardCapacityKW:    bar.CapacityKW,
		MaxBoardCapacityA:     bar.CapacityA,
		AvailablePowerKW:      Round2(bar.CapacityKW - totalMD),
	}
}

// AggregateStationPower folds every bar's demand into the station balance:
// max demand is the sum of operative_normal circuit MD across all bars,
// available power is transformer capacity minus that, and the status follows
// the threshold policy in ClassifyStation.
func AggregateStationPower(station *models.Station, circuitsByBar map[int64][]*models.Circuit, bars []*models.Bar) models.PowerSummary {
	var totalMD float64
	for _, bar := range bars {
		s := AggregateBarPower(bar, circuitsByBar[bar.ID])
		totalMD += s.TotalMaxDemandKW
	}
	totalMD = Round2(totalMD)
	available := Round2(station.TransformerCapacityKW - totalMD)
	return models.PowerSummary{
		StationID:             station.ID,
		StationName:           station.Name,
		TransformerCapacityKW: station.TransformerCapacityKW,
		MaxDemandKW:           totalMD,
		AvailablePowerKW:      available,
		Status:                ClassifyStation(available, station.TransformerCapacityKW),
	}
}
