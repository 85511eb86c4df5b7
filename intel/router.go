package intel

import "time"

// Config carries the tunable engine thresholds. Zero values fall back to
// the defaults, so an empty Config is a valid starting point.
type Config struct {
	HistorySize        int     `yaml:"historySize"`
	LoiterSeconds      float64 `yaml:"loiterSeconds"`
	MatchRadiusPx      float64 `yaml:"matchRadiusPx"`
	MaxTrackAgeSeconds float64 `yaml:"maxTrackAgeSeconds"`
	DensityDivisorPx   float64 `yaml:"densityDivisorPx"`
	RoadwayZoneStart   float64 `yaml:"roadwayZoneStart"`
	OpZoneStart        float64 `yaml:"opZoneStart"`

	// EnableIndustrial wires the industrial analyzer to the industrial
	// scene. Off by default: that scene ships without intelligence.
	EnableIndustrial bool `yaml:"enableIndustrial"`
}

func (c Config) withDefaults() Config {
	if c.HistorySize == 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.LoiterSeconds == 0 {
		c.LoiterSeconds = DefaultLoiterSeconds
	}
	if c.MatchRadiusPx == 0 {
		c.MatchRadiusPx = DefaultMatchRadiusPx
	}
	if c.MaxTrackAgeSeconds == 0 {
		c.MaxTrackAgeSeconds = DefaultMaxTrackAge.Seconds()
	}
	if c.DensityDivisorPx == 0 {
		c.DensityDivisorPx = DefaultDensityDivisorPx
	}
	if c.RoadwayZoneStart == 0 {
		c.RoadwayZoneStart = DefaultRoadwayZoneStart
	}
	if c.OpZoneStart == 0 {
		c.OpZoneStart = DefaultOpZoneStart
	}
	return c
}

// SceneAnalyzer is one scene's intelligence unit. Analyze must be total:
// given type-conformant detections it always produces an output and never
// fails. Reset discards all temporal state; the caller invokes it on scene
// switches so stale signals cannot bleed into a newly activated scene.
type SceneAnalyzer interface {
	Analyze(dets []Detection, frameWidth, frameHeight int, now time.Time) any
	Reset()
}

// Router dispatches a frame's detections to the analyzer configured for
// the active scene. Scenes without an analyzer yield nil intelligence,
// which is not an error. Router state is per scene instance; concurrent
// calls for the same scene need external serialization, different scenes
// are independent.
type Router struct {
	scenes map[string]SceneAnalyzer
}

// NewRouter builds the per-scene analyzer instances: the crowd+loiter
// composite for the shibuya scene, the traffic analyzer for the highway
// scene, and optionally the industrial analyzer.
func NewRouter(cfg Config) (*Router, error) {
	cfg = cfg.withDefaults()

	crowdLoiter, err := newCrowdSceneAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	highway, err := NewHighwayAnalyzer(cfg.HistorySize, cfg.RoadwayZoneStart)
	if err != nil {
		return nil, err
	}

	scenes := map[string]SceneAnalyzer{
		SceneShibuya: crowdLoiter,
		SceneHighway: &trafficSceneAnalyzer{highway: highway},
	}
	if cfg.EnableIndustrial {
		industrial, err := NewIndustrialAnalyzer(cfg.HistorySize, cfg.OpZoneStart)
		if err != nil {
			return nil, err
		}
		scenes[SceneIndustrial] = &industrialSceneAnalyzer{industrial: industrial}
	}
	return &Router{scenes: scenes}, nil
}

// Analyze runs the analyzer configured for sceneID and returns its report,
// or nil when the scene has no intelligence configured.
func (r *Router) Analyze(sceneID string, dets []Detection, frameWidth, frameHeight int, now time.Time) any {
	a, ok := r.scenes[sceneID]
	if !ok {
		return nil
	}
	return a.Analyze(dets, frameWidth, frameHeight, now)
}

// Reset clears the temporal state of one scene's analyzer.
func (r *Router) Reset(sceneID string) {
	if a, ok := r.scenes[sceneID]; ok {
		a.Reset()
	}
}

// ResetAll clears the temporal state of every configured analyzer.
func (r *Router) ResetAll() {
	for _, a := range r.scenes {
		a.Reset()
	}
}

// AlertTypeLoitering labels the safety alert raised per current loiterer
// in the crowd scene.
const AlertTypeLoitering = "loitering"

const loiterAlertMessage = "Person dwelling beyond loiter threshold."

// SafetyAlert is one entry of the crowd scene safety block.
type SafetyAlert struct {
	Type         string  `json:"type"`
	Message      string  `json:"message"`
	TrackID      int     `json:"track_id"`
	DwellSeconds float64 `json:"dwell_seconds"`
}

// SafetySummary aggregates the crowd scene safety alerts.
type SafetySummary struct {
	Alerts     []SafetyAlert `json:"alerts"`
	AlertCount int           `json:"alert_count"`
}

// CrowdSceneReport is the full intelligence block of the crowd scene.
type CrowdSceneReport struct {
	Crowd     CrowdReport   `json:"crowd"`
	Loitering LoiterReport  `json:"loitering"`
	Safety    SafetySummary `json:"safety"`
}

// crowdSceneAnalyzer composes the crowd and loiter analyzers for the
// pedestrian scene and derives the safety block from current loiterers.
type crowdSceneAnalyzer struct {
	crowd  *CrowdAnalyzer
	loiter *LoiterAnalyzer
}

func newCrowdSceneAnalyzer(cfg Config) (*crowdSceneAnalyzer, error) {
	crowd, err := NewCrowdAnalyzer(cfg.HistorySize, cfg.DensityDivisorPx)
	if err != nil {
		return nil, err
	}
	maxAge := time.Duration(cfg.MaxTrackAgeSeconds * float64(time.Second))
	loiter, err := NewLoiterAnalyzer(cfg.LoiterSeconds, cfg.MatchRadiusPx, maxAge)
	if err != nil {
		return nil, err
	}
	return &crowdSceneAnalyzer{crowd: crowd, loiter: loiter}, nil
}

func (a *crowdSceneAnalyzer) Analyze(dets []Detection, frameWidth, _ int, now time.Time) any {
	crowd := a.crowd.Analyze(dets, frameWidth)
	loiter := a.loiter.Analyze(dets, now)

	alerts := []SafetyAlert{}
	for _, l := range loiter.Loiterers {
		alerts = append(alerts, SafetyAlert{
			Type:         AlertTypeLoitering,
			Message:      loiterAlertMessage,
			TrackID:      l.TrackID,
			DwellSeconds: l.DwellSeconds,
		})
	}

	return CrowdSceneReport{
		Crowd:     crowd,
		Loitering: loiter,
		Safety:    SafetySummary{Alerts: alerts, AlertCount: len(alerts)},
	}
}

func (a *crowdSceneAnalyzer) Reset() {
	a.crowd.Reset()
	a.loiter.Reset()
}

// TrafficSceneReport wraps the traffic block of the highway scene output.
type TrafficSceneReport struct {
	Traffic TrafficReport `json:"traffic"`
}

type trafficSceneAnalyzer struct {
	highway *HighwayAnalyzer
}

func (a *trafficSceneAnalyzer) Analyze(dets []Detection, _, frameHeight int, _ time.Time) any {
	return TrafficSceneReport{Traffic: a.highway.Analyze(dets, frameHeight)}
}

func (a *trafficSceneAnalyzer) Reset() {
	a.highway.Reset()
}

type industrialSceneAnalyzer struct {
	industrial *IndustrialAnalyzer
}

func (a *industrialSceneAnalyzer) Analyze(dets []Detection, _, frameHeight int, _ time.Time) any {
	return a.industrial.Analyze(dets, frameHeight)
}

func (a *industrialSceneAnalyzer) Reset() {
	a.industrial.Reset()
}
