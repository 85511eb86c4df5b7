package intel

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Tracker defaults, in pixels and seconds.
const (
	DefaultMatchRadiusPx = 60.0
	DefaultMaxTrackAge   = 3 * time.Second
)

// Track is one persistently tracked object. Tracks are owned by the
// CentroidTracker; callers only ever see TrackView snapshots.
type Track struct {
	ID        int
	Pos       Point
	FirstSeen time.Time
	LastSeen  time.Time
	Dwell     float64 // accumulated seconds near a stable position, >= 0
}

// TrackView is the per-call snapshot of a live track.
type TrackView struct {
	ID           int
	Pos          Point
	DwellSeconds float64
}

// CentroidTracker associates detections with persistent track identities
// using greedy nearest-centroid matching. It is deliberately not a full
// tracker: matching is input-order greedy, not a global assignment, so two
// close detections can compete for the same track and the first one in
// input order wins.
type CentroidTracker struct {
	matchRadius float64
	maxAge      time.Duration

	tracks map[int]*Track
	nextID int
}

// NewCentroidTracker validates the thresholds and returns a tracker with
// no live tracks. Track ids start at 1 and are never reused.
func NewCentroidTracker(matchRadiusPx float64, maxAge time.Duration) (*CentroidTracker, error) {
	if matchRadiusPx <= 0 {
		return nil, fmt.Errorf("match radius must be positive, got %v", matchRadiusPx)
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("max track age must be positive, got %v", maxAge)
	}
	return &CentroidTracker{
		matchRadius: matchRadiusPx,
		maxAge:      maxAge,
		tracks:      map[int]*Track{},
		nextID:      1,
	}, nil
}

// Reset drops every live track. The id counter is kept so identities are
// unique for the tracker's whole lifetime.
func (t *CentroidTracker) Reset() {
	t.tracks = map[int]*Track{}
}

// Step ingests the centroids observed this frame and returns a snapshot of
// all live tracks, sorted by id. Per call it: evicts tracks unseen for
// longer than maxAge, greedily matches each centroid to the nearest unused
// track within matchRadius (spawning a new track otherwise), and updates
// dwell for every matched track — elapsed time is added when the track
// stayed within half the match radius and subtracted (floored at zero)
// when it moved further.
func (t *CentroidTracker) Step(centroids []Point, now time.Time) []TrackView {
	for id, tr := range t.tracks {
		if now.Sub(tr.LastSeen) > t.maxAge {
			delete(t.tracks, id)
		}
	}

	used := map[int]bool{}
	type assignment struct {
		id  int
		pos Point
	}
	assignments := make([]assignment, 0, len(centroids))

	for _, c := range centroids {
		bestID := 0
		bestDist := math.Inf(1)
		for id, tr := range t.tracks {
			if used[id] {
				continue
			}
			d := dist(tr.Pos, c)
			// lower id wins equal distances to keep matching deterministic
			if d < bestDist || (d == bestDist && id < bestID) {
				bestDist = d
				bestID = id
			}
		}
		if bestID != 0 && bestDist <= t.matchRadius {
			used[bestID] = true
			assignments = append(assignments, assignment{id: bestID, pos: c})
			continue
		}
		id := t.nextID
		t.nextID++
		t.tracks[id] = &Track{
			ID:        id,
			Pos:       c,
			FirstSeen: now,
			LastSeen:  now,
		}
		used[id] = true
		assignments = append(assignments, assignment{id: id, pos: c})
	}

	for _, a := range assignments {
		tr := t.tracks[a.id]
		dt := math.Max(0, now.Sub(tr.LastSeen).Seconds())
		if dist(tr.Pos, a.pos) <= t.matchRadius*0.5 {
			tr.Dwell += dt
		} else {
			// forgiving decay: movement erodes dwell instead of resetting it
			tr.Dwell = math.Max(0, tr.Dwell-dt)
		}
		tr.Pos = a.pos
		tr.LastSeen = now
	}

	views := make([]TrackView, 0, len(t.tracks))
	for _, tr := range t.tracks {
		views = append(views, TrackView{ID: tr.ID, Pos: tr.Pos, DwellSeconds: tr.Dwell})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
