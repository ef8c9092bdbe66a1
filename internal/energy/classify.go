package energy

import "linea1-bknd/internal/models"

// yellowThreshold is the fraction of transformer capacity below which a
// station's remaining headroom turns the board yellow.
const yellowThreshold = 0.20

// ClassifyStation maps a station's power balance to its traffic-light status:
// red when demand exceeds capacity, yellow when less than 20% of capacity
// remains, green otherwise. Exactly 20% remaining is green. A station with no
// transformer capacity is red; it can never serve load. Total function, no
// error conditions.
func ClassifyStation(availableKW, capacityKW float64) models.StationStatus {
	if capacityKW <= 0 {
		return models.StationRed
	}
	if availableKW < 0 {
		return models.StationRed
	}
	if availableKW < yellowThreshold*capacityKW {
		return models.StationYellow
	}
	return models.StationGreen
}
