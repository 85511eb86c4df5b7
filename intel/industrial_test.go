package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func forkliftAt(x, y float64) Detection {
	return Detection{
		ClassName:  "forklift",
		Confidence: 0.7,
		Box:        []float64{x - 40, y - 30, x + 40, y + 30},
	}
}

func TestIndustrialAnalyzer_PPE(t *testing.T) {
	t.Run("worker in op zone with a forklift raises the advisory", func(t *testing.T) {
		a, err := NewIndustrialAnalyzer(DefaultHistorySize, DefaultOpZoneStart)
		assert.NoError(t, err)

		// worker centroid at 90% of a 100px-tall frame, inside the zone
		report := a.Analyze([]Detection{
			personAt(50, 90),
			forkliftAt(70, 80),
		}, 100)

		assert.Equal(t, 1, report.WorkerCount)
		assert.Equal(t, 1, report.WorkersInOpZone)
		assert.Equal(t, 0, report.VehicleCount)
		assert.Equal(t, 1, report.MachineCount)
		assert.True(t, report.PPEVerificationRequired)
		assert.Equal(t, RiskElevated, report.Risk)
		assert.Equal(t, 1, report.AlertCount)
		assert.Len(t, report.Alerts, 1)

		alert := report.Alerts[0]
		assert.Equal(t, AlertTypePPE, alert.Type)
		assert.Equal(t, 1, alert.WorkersInZone)
		assert.Equal(t, 0, alert.Vehicles)
		assert.Equal(t, 1, alert.Machines)
		assert.NotEmpty(t, alert.Message)
	})

	t.Run("no advisory without vehicles or machinery", func(t *testing.T) {
		a, _ := NewIndustrialAnalyzer(DefaultHistorySize, DefaultOpZoneStart)
		report := a.Analyze([]Detection{personAt(50, 90)}, 100)
		assert.Equal(t, 1, report.WorkersInOpZone)
		assert.False(t, report.PPEVerificationRequired)
		assert.Equal(t, RiskNormal, report.Risk)
		assert.Equal(t, 0, report.AlertCount)
		assert.Empty(t, report.Alerts)
	})

	t.Run("no advisory when workers stay out of the zone", func(t *testing.T) {
		a, _ := NewIndustrialAnalyzer(DefaultHistorySize, DefaultOpZoneStart)
		report := a.Analyze([]Detection{
			personAt(50, 30), // upper part of the frame
			vehicleAt("truck", 70, 80),
		}, 100)
		assert.Equal(t, 1, report.WorkerCount)
		assert.Equal(t, 0, report.WorkersInOpZone)
		assert.Equal(t, 1, report.VehicleCount)
		assert.False(t, report.PPEVerificationRequired)
		assert.Equal(t, 0, report.AlertCount)
	})

	t.Run("alert count is one exactly when the flag is set", func(t *testing.T) {
		a, _ := NewIndustrialAnalyzer(DefaultHistorySize, DefaultOpZoneStart)
		// several workers and machines still produce a single advisory
		report := a.Analyze([]Detection{
			personAt(20, 90),
			personAt(50, 95),
			forkliftAt(70, 80),
			vehicleAt("motorcycle", 30, 85),
		}, 100)
		assert.True(t, report.PPEVerificationRequired)
		assert.Equal(t, 1, report.AlertCount)
		assert.Equal(t, 2, report.Alerts[0].WorkersInZone)
		assert.Equal(t, 1, report.Alerts[0].Vehicles)
		assert.Equal(t, 1, report.Alerts[0].Machines)
	})

	t.Run("worker trend follows recorded counts", func(t *testing.T) {
		a, _ := NewIndustrialAnalyzer(DefaultHistorySize, DefaultOpZoneStart)
		var report IndustrialReport
		counts := []int{6, 6, 6, 2, 2, 2}
		for _, n := range counts {
			dets := make([]Detection, 0, n)
			for i := 0; i < n; i++ {
				dets = append(dets, personAt(float64(i*30+20), 20))
			}
			report = a.Analyze(dets, 100)
		}
		assert.Equal(t, TrendDecreasing, report.WorkerTrend)
	})

	t.Run("zone fraction outside (0,1) is rejected", func(t *testing.T) {
		_, err := NewIndustrialAnalyzer(DefaultHistorySize, 0)
		assert.Error(t, err)
		_, err = NewIndustrialAnalyzer(DefaultHistorySize, 1.5)
		assert.Error(t, err)
	})
}
