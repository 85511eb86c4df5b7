package intel

import (
	"fmt"
	"math"
	"time"
)

// DefaultLoiterSeconds is the dwell threshold past which a tracked person
// counts as loitering.
const DefaultLoiterSeconds = 25.0

// Loiterer is one track whose dwell time crossed the loiter threshold.
type Loiterer struct {
	TrackID      int     `json:"track_id"`
	DwellSeconds float64 `json:"dwell_seconds"`
}

// LoiterReport is the loitering block of the crowd scene output.
type LoiterReport struct {
	Enabled          bool       `json:"enabled"`
	ThresholdSeconds float64    `json:"threshold_seconds"`
	ActiveTracks     int        `json:"active_tracks"`
	Loiterers        []Loiterer `json:"loiterers"`
	LoiterCount      int        `json:"loiter_count"`
}

// LoiterAnalyzer tracks person detections and reports the tracks whose
// dwell time exceeds the threshold. Loitering is re-evaluated every call:
// a track leaves the loiterer set again once decay pulls its dwell back
// under the threshold.
type LoiterAnalyzer struct {
	loiterSeconds float64
	tracker       *CentroidTracker
}

// NewLoiterAnalyzer validates the thresholds and builds the underlying
// centroid tracker.
func NewLoiterAnalyzer(loiterSeconds, matchRadiusPx float64, maxTrackAge time.Duration) (*LoiterAnalyzer, error) {
	if loiterSeconds <= 0 {
		return nil, fmt.Errorf("loiter threshold must be positive, got %v", loiterSeconds)
	}
	tracker, err := NewCentroidTracker(matchRadiusPx, maxTrackAge)
	if err != nil {
		return nil, err
	}
	return &LoiterAnalyzer{loiterSeconds: loiterSeconds, tracker: tracker}, nil
}

// Reset drops all tracking state.
func (a *LoiterAnalyzer) Reset() {
	a.tracker.Reset()
}

// Analyze advances tracking with this frame's person detections and
// reports current loiterers. Dwell values in the report are rounded to a
// tenth of a second.
func (a *LoiterAnalyzer) Analyze(dets []Detection, now time.Time) LoiterReport {
	persons := filterClass(dets, ClassPerson)
	centroids := make([]Point, len(persons))
	for i, p := range persons {
		centroids[i] = p.Centroid()
	}

	tracks := a.tracker.Step(centroids, now)

	loiterers := []Loiterer{}
	for _, tr := range tracks {
		if tr.DwellSeconds >= a.loiterSeconds {
			loiterers = append(loiterers, Loiterer{
				TrackID:      tr.ID,
				DwellSeconds: math.Round(tr.DwellSeconds*10) / 10,
			})
		}
	}

	return LoiterReport{
		Enabled:          true,
		ThresholdSeconds: a.loiterSeconds,
		ActiveTracks:     len(tracks),
		Loiterers:        loiterers,
		LoiterCount:      len(loiterers),
	}
}
