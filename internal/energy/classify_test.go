package energy

import (
	"testing"

	"linea1-bknd/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStation(t *testing.T) {
	tests := []struct {
		name      string
		available float64
		capacity  float64
		want      models.StationStatus
	}{
		{"comfortable margin is green", 400, 500, models.StationGreen},
		{"exactly 20 percent is green", 100, 500, models.StationGreen},
		{"just under 20 percent is yellow", 99.99, 500, models.StationYellow},
		{"barely positive is yellow", 0.01, 500, models.StationYellow},
		{"zero available is yellow", 0, 500, models.StationYellow},
		{"negative available is red", -0.01, 500, models.StationRed},
		{"deep overload is red", -200, 500, models.StationRed},
		{"zero capacity is red", 100, 0, models.StationRed},
		{"negative capacity is red", 100, -1, models.StationRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStation(tt.available, tt.capacity))
		})
	}
}
