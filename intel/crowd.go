package intel

import "fmt"

// DefaultDensityDivisorPx normalizes the crowd density score to frame
// width: score = count / (width / divisor). Empirically tuned for wide
// urban feeds; kept configurable rather than treated as a law.
const DefaultDensityDivisorPx = 1000.0

// crowdTrendMinCount gates trend recording: counts below this are detector
// noise at near-zero crowd levels and are not fed into the trend window.
const crowdTrendMinCount = 3

// CrowdZones is the left/center/right split of person centroids across
// frame thirds.
type CrowdZones struct {
	Left   int `json:"left"`
	Center int `json:"center"`
	Right  int `json:"right"`
}

// CrowdReport is the crowd block of the crowd scene output.
type CrowdReport struct {
	Count   int        `json:"count"`
	Density string     `json:"density"`
	Trend   string     `json:"trend"`
	Zones   CrowdZones `json:"zones"`
}

// CrowdAnalyzer classifies pedestrian density, zone distribution and
// short-term trend for pedestrian-heavy scenes.
type CrowdAnalyzer struct {
	densityDivisor float64
	trend          *TrendWindow
}

// NewCrowdAnalyzer builds an analyzer with the given rolling history size
// and density normalization divisor.
func NewCrowdAnalyzer(historySize int, densityDivisorPx float64) (*CrowdAnalyzer, error) {
	if densityDivisorPx <= 0 {
		return nil, fmt.Errorf("density divisor must be positive, got %v", densityDivisorPx)
	}
	trend, err := NewTrendWindow(historySize)
	if err != nil {
		return nil, err
	}
	return &CrowdAnalyzer{densityDivisor: densityDivisorPx, trend: trend}, nil
}

// Reset discards the trend history.
func (a *CrowdAnalyzer) Reset() {
	a.trend.Reset()
}

// Analyze buckets person centroids into frame thirds, scores density
// against frame width and classifies the crowd trend.
func (a *CrowdAnalyzer) Analyze(dets []Detection, frameWidth int) CrowdReport {
	persons := filterClass(dets, ClassPerson)
	count := len(persons)

	zones := CrowdZones{}
	w := float64(frameWidth)
	for _, p := range persons {
		cx := p.Centroid().X
		switch {
		case cx < w*0.33:
			zones.Left++
		case cx < w*0.66:
			zones.Center++
		default:
			zones.Right++
		}
	}

	score := float64(count) / (w / a.densityDivisor)
	var density string
	switch {
	case score < 8:
		density = DensityLow
	case score < 16:
		density = DensityMedium
	default:
		density = DensityHigh
	}

	if count >= crowdTrendMinCount {
		a.trend.Record(count)
	}

	return CrowdReport{
		Count:   count,
		Density: density,
		Trend:   a.trend.Classify(),
		Zones:   zones,
	}
}
