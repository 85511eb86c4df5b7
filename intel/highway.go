package intel

// DefaultRoadwayZoneStart is the frame-height fraction below which a
// person centroid counts as being in the roadway (lower 40% of the frame).
const DefaultRoadwayZoneStart = 0.60

var highwayVehicleClasses = map[string]bool{
	"car":       true,
	"truck":     true,
	"bus":       true,
	"motorbike": true,
}

// TrafficReport is the traffic block of the highway scene output.
type TrafficReport struct {
	VehicleCount        int    `json:"vehicle_count"`
	Density             string `json:"density"`
	Trend               string `json:"trend"`
	PedestrianInRoadway bool   `json:"pedestrian_in_roadway"`
	Risk                string `json:"risk"`
}

// HighwayAnalyzer classifies vehicle density and trend, and raises
// elevated risk when a pedestrian shows up in the roadway zone while
// vehicles are present. Per-frame aggregates only, no tracking.
type HighwayAnalyzer struct {
	roadwayZoneStart float64
	trend            *TrendWindow
}

// NewHighwayAnalyzer builds an analyzer with the given rolling history
// size and roadway zone start fraction.
func NewHighwayAnalyzer(historySize int, roadwayZoneStart float64) (*HighwayAnalyzer, error) {
	trend, err := NewTrendWindow(historySize)
	if err != nil {
		return nil, err
	}
	return &HighwayAnalyzer{roadwayZoneStart: roadwayZoneStart, trend: trend}, nil
}

// Reset discards the trend history.
func (a *HighwayAnalyzer) Reset() {
	a.trend.Reset()
}

// Analyze records the vehicle count into the trend window unconditionally
// (unlike the crowd analyzer there is no minimum gate) and scans person
// detections for the first one inside the roadway zone.
func (a *HighwayAnalyzer) Analyze(dets []Detection, frameHeight int) TrafficReport {
	vehicles := filterClasses(dets, highwayVehicleClasses)
	persons := filterClass(dets, ClassPerson)

	vehicleCount := len(vehicles)
	a.trend.Record(vehicleCount)

	var density string
	switch {
	case vehicleCount < 6:
		density = DensityLow
	case vehicleCount < 15:
		density = DensityMedium
	default:
		density = DensityHigh
	}

	pedestrianInRoadway := false
	zoneY := float64(frameHeight) * a.roadwayZoneStart
	for _, p := range persons {
		if p.Centroid().Y > zoneY {
			pedestrianInRoadway = true
			break
		}
	}

	risk := RiskNormal
	if pedestrianInRoadway && vehicleCount > 0 {
		risk = RiskElevated
	}

	return TrafficReport{
		VehicleCount:        vehicleCount,
		Density:             density,
		Trend:               a.trend.Classify(),
		PedestrianInRoadway: pedestrianInRoadway,
		Risk:                risk,
	}
}
