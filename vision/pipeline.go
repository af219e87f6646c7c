package vision

import (
	"github.com/framewatch/framewatch/capture"
)

// PipelineSettings configures the full analysis pipeline.
type PipelineSettings struct {
	MinContourArea  float64
	WarmUpFrames    int
	MogHistory      int
	MogVarThreshold float64
}

// Pipeline composes background subtraction, mask conditioning and
// contour classification into a single per-frame analysis step. It is
// stateful (the background model adapts online) and order-dependent;
// feed frames in capture order. Not safe for concurrent use.
type Pipeline struct {
	settings    PipelineSettings
	model       *BackgroundModel
	conditioner *Conditioner
	seen        int
}

func NewPipeline(settings PipelineSettings) *Pipeline {
	return &Pipeline{
		settings:    settings,
		model:       NewBackgroundModel(settings.MogHistory, settings.MogVarThreshold),
		conditioner: NewConditioner(),
	}
}

// Analyze scores one frame against the background model and returns a
// motion verdict. During the warm-up phase the model is trained but
// the verdict is always negative; a fresh model flags the entire
// scene as foreground until it has seen enough history.
func (p *Pipeline) Analyze(frame *capture.Frame) (Verdict, error) {
	mask, err := p.model.Apply(frame.Mat)
	if err != nil {
		return Verdict{}, err
	}
	defer mask.Close()

	p.seen++
	if p.seen <= p.settings.WarmUpFrames {
		return Verdict{Frame: frame}, nil
	}

	cleaned := p.conditioner.Clean(mask)
	defer cleaned.Close()

	present, largest := Classify(cleaned, p.settings.MinContourArea)
	return Verdict{Present: present, LargestArea: largest, Frame: frame}, nil
}

// Reset discards the learned background and restarts the warm-up
// phase. Called after a dimension mismatch.
func (p *Pipeline) Reset() {
	p.model.Reset()
	p.seen = 0
}

// Close releases all native resources held by the pipeline.
func (p *Pipeline) Close() {
	p.model.Close()
	p.conditioner.Close()
}
