package ingest

import (
	"context"
	"fmt"
	"time"

	"SceneIntelServer/detector"
	"SceneIntelServer/intel"
	"SceneIntelServer/logger"
	"SceneIntelServer/monitor"

	"github.com/go-resty/resty/v2"
	"gocv.io/x/gocv"
)

// Loop is the frame producer: it polls the backend for the active scene,
// reads frames from that scene's source, obtains detections, runs the
// intelligence router and publishes the result and the annotated frame.
// One Loop runs one goroutine; engine state needs no further locking.
type Loop struct {
	cfg    Config
	det    detector.Detector
	router *intel.Router
	client *resty.Client

	capture  *gocv.VideoCapture
	active   string
	lastPoll time.Time
}

// NewLoop validates the configuration and builds the intelligence router
// and backend client.
func NewLoop(cfg Config, det detector.Detector) (*Loop, error) {
	cfg = cfg.withDefaults()
	if det == nil {
		return nil, fmt.Errorf("detector is required")
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no scene sources configured")
	}
	router, err := intel.NewRouter(cfg.Engine)
	if err != nil {
		return nil, err
	}
	return &Loop{
		cfg:    cfg,
		det:    det,
		router: router,
		client: resty.New().SetTimeout(2 * time.Second),
	}, nil
}

// Run drives the loop until ctx is cancelled. Per-frame failures are
// logged and survived; only cancellation ends the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer l.releaseCapture()

	pollInterval := time.Duration(l.cfg.PollIntervalSeconds * float64(time.Second))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := time.Now()
		if now.Sub(l.lastPoll) > pollInterval {
			l.lastPoll = now
			l.checkScene(ctx)
		}

		if l.capture == nil {
			time.Sleep(200 * time.Millisecond)
			continue
		}

		img := gocv.NewMat()
		if ok := l.capture.Read(&img); !ok || img.Empty() {
			_ = img.Close()
			logger.S().Warnf("frame read failed for scene %s, reconnecting", l.active)
			l.releaseCapture()
			time.Sleep(500 * time.Millisecond)
			continue
		}

		l.processFrame(img)
		_ = img.Close()
	}
}

// checkScene asks the backend for the active scene and reopens the video
// source when it changed, resetting the intelligence state of both the
// scene being left and the one being entered.
func (l *Loop) checkScene(ctx context.Context) {
	scene, err := l.activeScene(ctx)
	if err != nil {
		logger.S().Warnf("scene poll failed: %v", err)
		return
	}
	if scene == "" || scene == l.active {
		return
	}

	logger.S().Infof("switching scene to %s", scene)
	l.releaseCapture()
	if l.active != "" {
		l.router.Reset(l.active)
	}
	l.router.Reset(scene)

	source, ok := l.cfg.Sources[scene]
	if !ok {
		logger.S().Errorf("scene %s has no configured source, waiting for operator action", scene)
		return
	}
	capture, err := gocv.OpenVideoCapture(source.URL)
	if err != nil {
		logger.S().Errorf("failed to open source for scene %s: %v", scene, err)
		return
	}
	if !capture.IsOpened() {
		_ = capture.Close()
		logger.S().Errorf("source for scene %s did not open", scene)
		return
	}
	l.capture = capture
	l.active = scene
}

type sceneResponse struct {
	Scene string `json:"scene"`
}

func (l *Loop) activeScene(ctx context.Context) (string, error) {
	var result sceneResponse
	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(l.cfg.BackendURL + "/scene")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("backend returned %s", resp.Status())
	}
	return result.Scene, nil
}

// processFrame runs one frame through detection and intelligence and
// publishes both outputs. Publish failures are logged and dropped; the
// next frame matters more than the last payload.
func (l *Loop) processFrame(img gocv.Mat) {
	dets, err := l.det.Detect(img)
	if err != nil {
		logger.S().Warnf("detection failed: %v", err)
		return
	}

	now := time.Now()
	intelligence := l.router.Analyze(l.active, dets, img.Cols(), img.Rows(), now)
	monitor.FramesTotal.Inc()

	result := buildResult(l.active, dets, intelligence, now)
	if err := l.publishResult(result); err != nil {
		logger.S().Warnf("result publish failed: %v", err)
	}

	annotate(&img, dets)
	if err := l.publishFrame(img); err != nil {
		logger.S().Warnf("frame publish failed: %v", err)
	}
}

func (l *Loop) publishResult(result FrameResult) error {
	resp, err := l.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(result).
		Post(l.cfg.BackendURL + "/frame")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("backend returned %s", resp.Status())
	}
	return nil
}

func (l *Loop) publishFrame(img gocv.Mat) error {
	buf, err := gocv.IMEncodeWithParams(".jpg", img, []int{gocv.IMWriteJpegQuality, l.cfg.JPEGQuality})
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	resp, err := l.client.R().
		SetHeader("Content-Type", "image/jpeg").
		SetBody(buf.GetBytes()).
		Post(l.cfg.BackendURL + "/video")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("backend returned %s", resp.Status())
	}
	return nil
}

func (l *Loop) releaseCapture() {
	if l.capture != nil {
		_ = l.capture.Close()
		l.capture = nil
	}
}
