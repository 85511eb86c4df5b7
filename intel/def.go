package intel

// Scene identifiers understood by the router. They mirror the scene keys
// the backend serves from /scenes.
const (
	SceneShibuya    = "shibuya"
	SceneHighway    = "highway"
	SceneIndustrial = "industrial"
)

const (
	DensityLow    = "low"
	DensityMedium = "medium"
	DensityHigh   = "high"
)

const (
	TrendStable     = "stable"
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
)

const (
	RiskNormal   = "normal"
	RiskElevated = "elevated"
)

const ClassPerson = "person"

// Detection is one detected object in one frame, as produced by the
// upstream detector. The engine never mutates a Detection and never keeps
// one past the current Analyze call.
type Detection struct {
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	Box        []float64 `json:"bbox"`
}

// HasBox reports whether the detection carries a well-formed 4-tuple box.
// Detections failing this check are excluded from every class filter.
func (d Detection) HasBox() bool {
	return len(d.Box) == 4
}

// Centroid is the box center. Only meaningful when HasBox holds.
func (d Detection) Centroid() Point {
	return Point{
		X: (d.Box[0] + d.Box[2]) / 2,
		Y: (d.Box[1] + d.Box[3]) / 2,
	}
}

// Point is a position in frame pixel space.
type Point struct {
	X float64
	Y float64
}

// filterClass keeps detections of a single class that carry a usable box.
func filterClass(dets []Detection, class string) []Detection {
	var out []Detection
	for _, d := range dets {
		if d.ClassName == class && d.HasBox() {
			out = append(out, d)
		}
	}
	return out
}

// filterClasses keeps detections whose class is in the given set and that
// carry a usable box.
func filterClasses(dets []Detection, classes map[string]bool) []Detection {
	var out []Detection
	for _, d := range dets {
		if classes[d.ClassName] && d.HasBox() {
			out = append(out, d)
		}
	}
	return out
}
