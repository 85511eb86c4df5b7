package monitor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"SceneIntelServer/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v4/process"
)

var (
	proc process.Process

	memUsage = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "memory_usage_megabytes",
		Help: "Resident memory in megabytes",
	})
	cpuUsage = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cpu_usage_percent",
		Help: "CPU usage in percent",
	})

	// FramesTotal counts frames run through the intelligence engine.
	FramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scene_frames_processed_total",
		Help: "Total frames analyzed by the scene intelligence engine",
	})

	// EventsTotal counts frame results accepted by the backend.
	EventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "backend_events_stored_total",
		Help: "Total frame result events accepted by the backend",
	})
)

var srv *http.Server

func serveMetrics(port int) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(memUsage, cpuUsage, FramesTotal, EventsTotal)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.S().Errorf("metrics server error: %v", err)
		}
	}()
}

func sampleProcess() {
	memInfo, err := proc.MemoryInfo()
	if err == nil {
		memUsage.Set(float64(memInfo.RSS / 1024 / 1024))
	}
	cpuPercent, err := proc.CPUPercent()
	if err == nil {
		cpuUsage.Set(math.Round(cpuPercent*100) / 100)
	}
}

// StartMon serves prometheus metrics on the given port and samples this
// process's memory and CPU every 500ms until ctx is cancelled.
func StartMon(port int, ctx context.Context) {
	proc = process.Process{Pid: int32(os.Getpid())}
	serveMetrics(port)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
sample:
	for {
		select {
		case <-ctx.Done():
			break sample
		case <-ticker.C:
			sampleProcess()
		}
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.S().Errorf("metrics server shutdown error: %v", err)
	}
}
