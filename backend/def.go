package backend

// SceneInfo describes one selectable scene for the dashboard.
type SceneInfo struct {
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`
}

// Config is the backend section of config.yaml.
type Config struct {
	Port        int                  `yaml:"port"`
	MonitorPort int                  `yaml:"monitorPort"`
	MaxEvents   int                  `yaml:"maxEvents"`
	ActiveScene string               `yaml:"activeScene"`
	Scenes      map[string]SceneInfo `yaml:"scenes"`
}

// DefaultMaxEvents bounds the in-memory event log.
const DefaultMaxEvents = 500

func defaultScenes() map[string]SceneInfo {
	return map[string]SceneInfo{
		"shibuya":    {Label: "Shibuya Crossing", Type: "youtube"},
		"industrial": {Label: "Industrial Yard", Type: "hls"},
		"highway":    {Label: "Highway Traffic", Type: "hls"},
	}
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.MaxEvents <= 0 {
		c.MaxEvents = DefaultMaxEvents
	}
	if len(c.Scenes) == 0 {
		c.Scenes = defaultScenes()
	}
	if c.ActiveScene == "" {
		c.ActiveScene = "shibuya"
	}
	return c
}
