package capture

import "sync"

type mockStep struct {
	frame *Frame
	err   error
}

// MockSource is a scripted FrameSource for tests. Frames and errors
// are served in the order they were enqueued; an exhausted script
// yields ErrUnavailable.
type MockSource struct {
	mu     sync.Mutex
	steps  []mockStep
	calls  int
	closed bool
}

func NewMockSource() *MockSource {
	return &MockSource{}
}

// EnqueueFrame schedules a frame to be returned by a future NextFrame
// call. The mock takes ownership of the frame.
func (m *MockSource) EnqueueFrame(f *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockStep{frame: f})
}

// EnqueueError schedules an error result.
func (m *MockSource) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockStep{err: err})
}

func (m *MockSource) NextFrame() (*Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if len(m.steps) == 0 {
		return nil, ErrUnavailable
	}

	step := m.steps[0]
	m.steps = m.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	return step.frame, nil
}

// Calls returns how many times NextFrame has been invoked.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for _, step := range m.steps {
		if step.frame != nil {
			step.frame.Close()
		}
	}
	m.steps = nil
	return nil
}

// Closed reports whether Close has been called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
