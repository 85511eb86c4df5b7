package detector

import (
	"fmt"
	"time"

	"SceneIntelServer/intel"

	"github.com/go-resty/resty/v2"
	"gocv.io/x/gocv"
)

// Detector produces per-frame detections. Detection itself is external to
// this system; implementations wrap whatever service or model runs it.
type Detector interface {
	Detect(img gocv.Mat) ([]intel.Detection, error)
}

// Remote calls an external inference service over HTTP: the frame goes out
// as a JPEG body, the detection list comes back as JSON.
type Remote struct {
	client *resty.Client
	url    string
}

type detectResponse struct {
	Detections []intel.Detection `json:"detections"`
}

// NewRemote builds a client for the inference service at url.
func NewRemote(url string, timeout time.Duration) *Remote {
	return &Remote{
		client: resty.New().SetTimeout(timeout),
		url:    url,
	}
}

// Detect encodes the frame and round-trips it through the inference
// service.
func (r *Remote) Detect(img gocv.Mat) ([]intel.Detection, error) {
	buf, err := gocv.IMEncode(".jpg", img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	var result detectResponse
	resp, err := r.client.R().
		SetHeader("Content-Type", "image/jpeg").
		SetBody(buf.GetBytes()).
		SetResult(&result).
		Post(r.url)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("inference service returned %s", resp.Status())
	}
	return result.Detections, nil
}
