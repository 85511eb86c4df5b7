package ingest

import (
	"fmt"
	"image"
	"image/color"

	"SceneIntelServer/intel"

	"gocv.io/x/gocv"
)

var boxColor = color.RGBA{R: 0, G: 200, B: 0, A: 255}

// annotate draws each detection's box and class label onto the frame
// before it is published for the dashboard.
func annotate(img *gocv.Mat, dets []intel.Detection) {
	for _, d := range dets {
		if !d.HasBox() {
			continue
		}
		x1, y1 := int(d.Box[0]), int(d.Box[1])
		x2, y2 := int(d.Box[2]), int(d.Box[3])
		gocv.Rectangle(img, image.Rect(x1, y1, x2, y2), boxColor, 2)

		label := fmt.Sprintf("%s %.2f", d.ClassName, d.Confidence)
		gocv.PutText(img, label, image.Pt(x1, y1-5), gocv.FontHersheySimplex, 0.5, boxColor, 1)
	}
}
