package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/annotation"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/video"
)

// Presentation constants. These are fixed style, not data.
var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

const (
	boxThickness  = 2
	fontScale     = 0.5
	textThickness = 1
	labelOffsetY  = 5
)

// DrawActive paints every visible annotation onto frame in place. Boxes that
// fall partially or fully outside the frame are clipped by the drawing
// primitives rather than rejected.
func DrawActive(frame *gocv.Mat, geom video.Geometry, active []annotation.Scheduled) {
	for _, ann := range active {
		drawAnnotation(frame, geom, ann.Annotation)
	}
}

func drawAnnotation(frame *gocv.Mat, geom video.Geometry, ann annotation.Annotation) {
	x := int(ann.Box.Left * float64(geom.Width))
	y := int(ann.Box.Top * float64(geom.Height))
	w := int(ann.Box.Width * float64(geom.Width))
	h := int(ann.Box.Height * float64(geom.Height))

	gocv.Rectangle(frame, image.Rect(x, y, x+w, y+h), boxColor, boxThickness)

	label := fmt.Sprintf("%s (%.1f%%)", ann.Name, ann.Confidence)
	gocv.PutText(frame, label, image.Pt(x, y-labelOffsetY),
		gocv.FontHersheySimplex, fontScale, boxColor, textThickness)
}
