package ingest

import (
	"time"

	"SceneIntelServer/intel"
)

// SceneSource maps a logical scene to a playable video source.
type SceneSource struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
}

// Config is the ingest section of config.yaml.
type Config struct {
	BackendURL          string                 `yaml:"backendURL"`
	DetectorURL         string                 `yaml:"detectorURL"`
	PollIntervalSeconds float64                `yaml:"pollIntervalSeconds"`
	JPEGQuality         int                    `yaml:"jpegQuality"`
	MonitorPort         int                    `yaml:"monitorPort"`
	Sources             map[string]SceneSource `yaml:"sources"`
	Engine              intel.Config           `yaml:"engine"`
}

func (c Config) withDefaults() Config {
	if c.BackendURL == "" {
		c.BackendURL = "http://localhost:8000"
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 2.0
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = 80
	}
	return c
}

// FrameResult is the JSON payload posted to the backend for each
// processed frame.
type FrameResult struct {
	Scene         string            `json:"scene"`
	Timestamp     float64           `json:"timestamp"`
	NumDetections int               `json:"num_detections"`
	Classes       map[string]int    `json:"classes"`
	Detections    []intel.Detection `json:"detections"`
	Intelligence  any               `json:"intelligence,omitempty"`
}

// buildResult assembles the payload: per-class counts, the raw detection
// list, and the scene intelligence block (absent for scenes without one).
func buildResult(scene string, dets []intel.Detection, intelligence any, now time.Time) FrameResult {
	classes := map[string]int{}
	for _, d := range dets {
		classes[d.ClassName]++
	}
	return FrameResult{
		Scene:         scene,
		Timestamp:     float64(now.UnixNano()) / float64(time.Second),
		NumDetections: len(dets),
		Classes:       classes,
		Detections:    dets,
		Intelligence:  intelligence,
	}
}
