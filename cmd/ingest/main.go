package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SceneIntelServer/detector"
	"SceneIntelServer/ingest"
	"SceneIntelServer/logger"
	"SceneIntelServer/monitor"

	"gopkg.in/yaml.v3"
)

type configStruct struct {
	Development bool          `yaml:"development"`
	Ingest      ingest.Config `yaml:"ingest"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		fmt.Println("Failed to read config file:", err)
		return
	}
	config := configStruct{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		fmt.Println("Failed to parse config file:", err)
		return
	}

	if err := logger.Init(config.Development); err != nil {
		fmt.Println("Failed to init logger:", err)
		return
	}
	defer logger.Sync()

	if config.Ingest.DetectorURL == "" {
		logger.S().Fatal("detectorURL is required")
	}
	det := detector.NewRemote(config.Ingest.DetectorURL, 5*time.Second)

	loop, err := ingest.NewLoop(config.Ingest, det)
	if err != nil {
		logger.S().Fatalf("ingest setup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Ingest.MonitorPort > 0 {
		go monitor.StartMon(config.Ingest.MonitorPort, ctx)
	}

	logger.S().Infof("ingest loop starting, backend %s", config.Ingest.BackendURL)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.S().Errorf("ingest loop error: %v", err)
	}
	logger.S().Info("ingest loop stopped")
}
