package intel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Dispatch(t *testing.T) {
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	t.Run("shibuya yields the crowd scene report", func(t *testing.T) {
		r, err := NewRouter(Config{})
		assert.NoError(t, err)

		out := r.Analyze(SceneShibuya, []Detection{personAt(100, 100)}, 1000, 720, base)
		report, ok := out.(CrowdSceneReport)
		assert.True(t, ok)
		assert.Equal(t, 1, report.Crowd.Count)
		assert.True(t, report.Loitering.Enabled)
		assert.Equal(t, 0, report.Safety.AlertCount)
	})

	t.Run("highway yields the traffic report", func(t *testing.T) {
		r, _ := NewRouter(Config{})
		out := r.Analyze(SceneHighway, vehicles(3), 1280, 720, base)
		report, ok := out.(TrafficSceneReport)
		assert.True(t, ok)
		assert.Equal(t, 3, report.Traffic.VehicleCount)
	})

	t.Run("industrial has no intelligence unless enabled", func(t *testing.T) {
		r, _ := NewRouter(Config{})
		assert.Nil(t, r.Analyze(SceneIndustrial, []Detection{personAt(50, 90)}, 640, 100, base))

		r, _ = NewRouter(Config{EnableIndustrial: true})
		out := r.Analyze(SceneIndustrial, []Detection{personAt(50, 90), forkliftAt(70, 80)}, 640, 100, base)
		report, ok := out.(IndustrialReport)
		assert.True(t, ok)
		assert.True(t, report.PPEVerificationRequired)
	})

	t.Run("unknown scene yields nil, not an error", func(t *testing.T) {
		r, _ := NewRouter(Config{})
		assert.Nil(t, r.Analyze("parking-lot", vehicles(3), 1280, 720, base))
	})
}

func TestRouter_SafetyAlerts(t *testing.T) {
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	r, _ := NewRouter(Config{LoiterSeconds: 2.0})
	var report CrowdSceneReport
	for i := 0; i <= 3; i++ {
		out := r.Analyze(SceneShibuya, []Detection{personAt(100, 100)}, 1000, 720, base.Add(time.Duration(i)*time.Second))
		report = out.(CrowdSceneReport)
	}
	assert.Equal(t, 1, report.Loitering.LoiterCount)
	assert.Equal(t, 1, report.Safety.AlertCount)
	assert.Equal(t, AlertTypeLoitering, report.Safety.Alerts[0].Type)
	assert.Equal(t, report.Loitering.Loiterers[0].TrackID, report.Safety.Alerts[0].TrackID)
}

func TestRouter_Reset(t *testing.T) {
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	r, _ := NewRouter(Config{})
	for i := 0; i < 3; i++ {
		r.Analyze(SceneShibuya, []Detection{personAt(100, 100)}, 1000, 720, base.Add(time.Duration(i)*time.Second))
	}
	r.Reset(SceneShibuya)

	out := r.Analyze(SceneShibuya, nil, 1000, 720, base.Add(time.Minute))
	report := out.(CrowdSceneReport)
	assert.Equal(t, 0, report.Loitering.ActiveTracks)

	// resetting an unconfigured scene is a no-op
	r.Reset("parking-lot")
	r.ResetAll()
}

func TestRouter_Deterministic(t *testing.T) {
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	dets := []Detection{
		personAt(100, 100),
		personAt(400, 300),
		vehicleAt("car", 600, 500),
	}

	run := func() any {
		r, err := NewRouter(Config{})
		assert.NoError(t, err)
		return r.Analyze(SceneShibuya, dets, 1280, 720, base)
	}
	assert.Equal(t, run(), run())
}
