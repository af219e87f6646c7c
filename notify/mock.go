package notify

import "sync"

// SentMessage records one Send call made against the mock.
type SentMessage struct {
	Image   []byte
	Caption string
}

// MockNotifier records sends for tests. An optional error is returned
// from every Send, and an optional Block channel makes Send hang until
// the channel is closed, to exercise slow-transport behavior.
type MockNotifier struct {
	mu    sync.Mutex
	sent  []SentMessage
	Err   error
	Block chan struct{}
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Send(image []byte, caption string) error {
	if m.Block != nil {
		<-m.Block
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	img := make([]byte, len(image))
	copy(img, image)
	m.sent = append(m.sent, SentMessage{Image: img, Caption: caption})
	return m.Err
}

// Sent returns a copy of all recorded sends.
func (m *MockNotifier) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
