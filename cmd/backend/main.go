package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"SceneIntelServer/backend"
	"SceneIntelServer/logger"
	"SceneIntelServer/monitor"

	"gopkg.in/yaml.v3"
)

type configStruct struct {
	Development bool           `yaml:"development"`
	Backend     backend.Config `yaml:"backend"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	config := configStruct{}
	if data, err := os.ReadFile(*configPath); err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			fmt.Println("Failed to parse config file:", err)
			return
		}
	} else {
		fmt.Println("No config file, using defaults:", err)
	}

	if err := logger.Init(config.Development); err != nil {
		fmt.Println("Failed to init logger:", err)
		return
	}
	defer logger.Sync()

	srv, err := backend.NewServer(config.Backend)
	if err != nil {
		logger.S().Fatalf("backend setup failed: %v", err)
	}

	if config.Backend.MonitorPort > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go monitor.StartMon(config.Backend.MonitorPort, ctx)
	}

	port := config.Backend.Port
	if port == 0 {
		port = 8000
	}
	logger.S().Infof("backend listening on :%d", port)
	if err := srv.Routes().Run(fmt.Sprintf(":%d", port)); err != nil {
		logger.S().Fatalf("backend server error: %v", err)
	}
}
