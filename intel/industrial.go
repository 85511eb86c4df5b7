package intel

import "fmt"

// DefaultOpZoneStart is the frame-height fraction below which a worker
// centroid counts as being in the operational area.
const DefaultOpZoneStart = 0.60

// AlertTypePPE labels the PPE verification advisory.
const AlertTypePPE = "ppe_verification_required"

const ppeAdvisoryMessage = "Worker(s) detected in operational area. PPE verification recommended."

var industrialVehicleClasses = map[string]bool{
	"car":        true,
	"truck":      true,
	"bus":        true,
	"motorbike":  true,
	"motorcycle": true,
}

var industrialMachineClasses = map[string]bool{
	"forklift": true,
}

// PPEAlert is the advisory emitted when workers share the operational
// zone with vehicles or machinery.
type PPEAlert struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	WorkersInZone int    `json:"workers_in_zone"`
	Vehicles      int    `json:"vehicles"`
	Machines      int    `json:"machines"`
}

// IndustrialReport is the industrial scene output.
type IndustrialReport struct {
	WorkerCount             int        `json:"worker_count"`
	WorkerTrend             string     `json:"worker_trend"`
	WorkersInOpZone         int        `json:"workers_in_op_zone"`
	VehicleCount            int        `json:"vehicle_count"`
	MachineCount            int        `json:"machine_count"`
	PPEVerificationRequired bool       `json:"ppe_verification_required"`
	Risk                    string     `json:"risk"`
	Alerts                  []PPEAlert `json:"alerts"`
	AlertCount              int        `json:"alert_count"`
}

// IndustrialAnalyzer classifies worker presence and trend, and raises a
// PPE verification advisory when workers occupy the operational zone
// concurrently with vehicles or machinery. Per-frame aggregates only.
type IndustrialAnalyzer struct {
	opZoneStart float64
	workerTrend *TrendWindow
}

// NewIndustrialAnalyzer builds an analyzer with the given rolling history
// size and operational zone start fraction (0 < fraction < 1).
func NewIndustrialAnalyzer(historySize int, opZoneStart float64) (*IndustrialAnalyzer, error) {
	if opZoneStart <= 0 || opZoneStart >= 1 {
		return nil, fmt.Errorf("op zone start must be a fraction in (0,1), got %v", opZoneStart)
	}
	trend, err := NewTrendWindow(historySize)
	if err != nil {
		return nil, err
	}
	return &IndustrialAnalyzer{opZoneStart: opZoneStart, workerTrend: trend}, nil
}

// Reset discards the worker trend history.
func (a *IndustrialAnalyzer) Reset() {
	a.workerTrend.Reset()
}

// Analyze counts workers, vehicles and machines, records the worker count
// into the trend window, and emits exactly one PPE alert when workers are
// in the operational zone while any vehicle or machine is present.
func (a *IndustrialAnalyzer) Analyze(dets []Detection, frameHeight int) IndustrialReport {
	persons := filterClass(dets, ClassPerson)
	vehicles := filterClasses(dets, industrialVehicleClasses)
	machines := filterClasses(dets, industrialMachineClasses)

	workerCount := len(persons)
	vehicleCount := len(vehicles)
	machineCount := len(machines)

	a.workerTrend.Record(workerCount)

	workersInOpZone := 0
	zoneY := float64(frameHeight) * a.opZoneStart
	for _, p := range persons {
		if p.Centroid().Y > zoneY {
			workersInOpZone++
		}
	}

	highRiskContext := vehicleCount+machineCount > 0
	ppeRequired := workersInOpZone > 0 && highRiskContext

	risk := RiskNormal
	alerts := []PPEAlert{}
	if ppeRequired {
		risk = RiskElevated
		alerts = append(alerts, PPEAlert{
			Type:          AlertTypePPE,
			Message:       ppeAdvisoryMessage,
			WorkersInZone: workersInOpZone,
			Vehicles:      vehicleCount,
			Machines:      machineCount,
		})
	}

	return IndustrialReport{
		WorkerCount:             workerCount,
		WorkerTrend:             a.workerTrend.Classify(),
		WorkersInOpZone:         workersInOpZone,
		VehicleCount:            vehicleCount,
		MachineCount:            machineCount,
		PPEVerificationRequired: ppeRequired,
		Risk:                    risk,
		Alerts:                  alerts,
		AlertCount:              len(alerts),
	}
}
