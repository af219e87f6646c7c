package vision

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/framewatch/framewatch/capture"
)

// newMask creates a single-channel mask filled with the given value.
func newMask(rows, cols int, value float64) gocv.Mat {
	mask := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	mask.SetTo(gocv.NewScalar(value, 0, 0, 0))
	return mask
}

// fillSquare draws a filled white square of the given side length.
// The external contour of an n-pixel square encloses (n-1)^2 units,
// which is what gocv.ContourArea reports.
func fillSquare(mask *gocv.Mat, x, y, side int) {
	rect := image.Rect(x, y, x+side, y+side)
	gocv.Rectangle(mask, rect, color.RGBA{255, 255, 255, 0}, -1)
}

func matsEqual(a, b gocv.Mat) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)
	return gocv.CountNonZero(diff) == 0
}

func TestClassify_EmptyMask(t *testing.T) {
	mask := newMask(480, 640, 0)
	defer mask.Close()

	present, largest := Classify(mask, 1)
	if present {
		t.Error("all-black mask must not be classified as motion")
	}
	if largest != 0 {
		t.Errorf("expected zero largest area, got %v", largest)
	}
}

func TestClassify_InclusiveThreshold(t *testing.T) {
	mask := newMask(480, 640, 0)
	defer mask.Close()

	// An 11x11 filled square has a contour area of exactly 100.
	fillSquare(&mask, 50, 50, 11)
	area := 100.0

	present, largest := Classify(mask, area)
	if !present {
		t.Errorf("region of exactly minArea must count as motion (largest=%v)", largest)
	}
	if largest != area {
		t.Errorf("expected largest area %v, got %v", area, largest)
	}

	// One pixel short of the threshold: absent.
	present, _ = Classify(mask, area+1)
	if present {
		t.Error("region below minArea must not count as motion")
	}
}

func TestClassify_PicksLargestRegion(t *testing.T) {
	mask := newMask(480, 640, 0)
	defer mask.Close()

	fillSquare(&mask, 20, 20, 6)    // area 25
	fillSquare(&mask, 200, 200, 21) // area 400

	present, largest := Classify(mask, 300)
	if !present {
		t.Error("expected motion from the larger region")
	}
	if largest != 400 {
		t.Errorf("expected largest area 400, got %v", largest)
	}
}

func TestConditioner_IdempotentOnUniformMasks(t *testing.T) {
	cond := NewConditioner()
	defer cond.Close()

	for _, value := range []float64{0, 255} {
		mask := newMask(120, 160, value)
		cleaned := cond.Clean(mask)
		if !matsEqual(mask, cleaned) {
			t.Errorf("uniform mask (value %v) must pass through unchanged", value)
		}
		cleaned.Close()
		mask.Close()
	}
}

func TestConditioner_RemovesSpeckle(t *testing.T) {
	cond := NewConditioner()
	defer cond.Close()

	mask := newMask(120, 160, 0)
	defer mask.Close()
	mask.SetUCharAt(60, 80, 255)

	cleaned := cond.Clean(mask)
	defer cleaned.Close()

	if gocv.CountNonZero(cleaned) != 0 {
		t.Error("isolated single-pixel speckle must be removed")
	}
}

func TestConditioner_KeepsLargeRegions(t *testing.T) {
	cond := NewConditioner()
	defer cond.Close()

	mask := newMask(120, 160, 0)
	defer mask.Close()
	fillSquare(&mask, 40, 40, 30)

	cleaned := cond.Clean(mask)
	defer cleaned.Close()

	if gocv.CountNonZero(cleaned) == 0 {
		t.Error("a genuine region must survive conditioning")
	}
}

func TestBackgroundModel_DimensionMismatch(t *testing.T) {
	model := NewBackgroundModel(500, 50)
	defer model.Close()

	first := newMask(480, 640, 128)
	defer first.Close()
	mask, err := model.Apply(first)
	if err != nil {
		t.Fatalf("first Apply returned error: %v", err)
	}
	mask.Close()

	smaller := newMask(240, 320, 128)
	defer smaller.Close()
	mask, err = model.Apply(smaller)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	mask.Close()

	// After a reset the model accepts the new dimensions.
	model.Reset()
	mask, err = model.Apply(smaller)
	if err != nil {
		t.Fatalf("Apply after Reset returned error: %v", err)
	}
	mask.Close()
}

func makeFrame(value uint8) *capture.Frame {
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC1)
	mat.SetTo(gocv.NewScalar(float64(value), 0, 0, 0))
	return &capture.Frame{Mat: mat, CapturedAt: time.Now()}
}

func TestPipeline_WarmUpSuppressesVerdicts(t *testing.T) {
	p := NewPipeline(PipelineSettings{
		MinContourArea:  100,
		WarmUpFrames:    3,
		MogHistory:      500,
		MogVarThreshold: 50,
	})
	defer p.Close()

	for i := 0; i < 3; i++ {
		frame := makeFrame(128)
		fillSquare(&frame.Mat, 100, 100, 90)
		verdict, err := p.Analyze(frame)
		if err != nil {
			t.Fatalf("Analyze returned error: %v", err)
		}
		if verdict.Present {
			t.Errorf("frame %d: warm-up verdicts must be absent", i+1)
		}
		frame.Close()
	}
}

func TestPipeline_StaticSceneThenMotion(t *testing.T) {
	p := NewPipeline(PipelineSettings{
		MinContourArea:  5000,
		MogHistory:      500,
		MogVarThreshold: 50,
		WarmUpFrames:    2,
	})
	defer p.Close()

	// Frames 1-5: identical static scene. The first two train the
	// model (warm-up); the rest must yield absent verdicts.
	for i := 0; i < 5; i++ {
		frame := makeFrame(128)
		verdict, err := p.Analyze(frame)
		if err != nil {
			t.Fatalf("frame %d: Analyze returned error: %v", i+1, err)
		}
		if verdict.Present {
			t.Errorf("frame %d: static scene must not trigger motion", i+1)
		}
		frame.Close()
	}

	// Frame 6: a bright filled square well above the area threshold.
	frame := makeFrame(128)
	fillSquare(&frame.Mat, 200, 150, 90)
	verdict, err := p.Analyze(frame)
	if err != nil {
		t.Fatalf("frame 6: Analyze returned error: %v", err)
	}
	if !verdict.Present {
		t.Errorf("frame 6: expected motion verdict, largest area %v", verdict.LargestArea)
	}
	if verdict.Frame != frame {
		t.Error("verdict must carry the triggering frame")
	}
	frame.Close()
}

func TestPipeline_ResetRestartsWarmUp(t *testing.T) {
	p := NewPipeline(PipelineSettings{
		MinContourArea:  100,
		MogHistory:      500,
		MogVarThreshold: 50,
		WarmUpFrames:    1,
	})
	defer p.Close()

	frame := makeFrame(128)
	if _, err := p.Analyze(frame); err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	frame.Close()

	p.Reset()

	// Right after a reset even a moving scene is suppressed while the
	// model relearns.
	frame = makeFrame(128)
	fillSquare(&frame.Mat, 100, 100, 90)
	verdict, err := p.Analyze(frame)
	if err != nil {
		t.Fatalf("Analyze after Reset returned error: %v", err)
	}
	if verdict.Present {
		t.Error("first frame after Reset must be treated as warm-up")
	}
	frame.Close()
}
