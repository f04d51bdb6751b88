package modem_test

import (
	"time"

	gomock "go.uber.org/mock/gomock"
	"i4.energy/across/answerd/modem"
)

// MockSequenceBuilder records the transport calls of successive command
// exchanges for use with gomock.InOrder.
type MockSequenceBuilder struct {
	transport *modem.MockTransport
	calls     []any
}

func NewMockSequence(transport *modem.MockTransport) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		transport: transport,
		calls:     []any{},
	}
}

// Command expects cmd to be written and answers it with reply in one read.
func (b *MockSequenceBuilder) Command(cmd, reply string) *MockSequenceBuilder {
	wire := []byte(cmd + "\r")
	b.calls = append(b.calls,
		b.transport.EXPECT().FlushInput().Return(nil),
		b.transport.EXPECT().Write(wire).Return(len(wire), nil),
		b.transport.EXPECT().SetReadTimeout(gomock.Any()).Return(nil),
		b.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			return copy(p, reply), nil
		}),
	)
	return b
}

func (b *MockSequenceBuilder) AT() *MockSequenceBuilder {
	return b.Command("AT", "AT\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Reset() *MockSequenceBuilder {
	return b.Command("ATZ", "\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Failing(cmd string) *MockSequenceBuilder {
	return b.Command(cmd, "\r\nERROR\r\n")
}

// Silent expects cmd to be written and never answered.
func (b *MockSequenceBuilder) Silent(cmd string) *MockSequenceBuilder {
	wire := []byte(cmd + "\r")
	b.calls = append(b.calls,
		b.transport.EXPECT().FlushInput().Return(nil),
		b.transport.EXPECT().Write(wire).Return(len(wire), nil),
		b.transport.EXPECT().SetReadTimeout(gomock.Any()).Return(nil).AnyTimes(),
		b.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			time.Sleep(5 * time.Millisecond)
			return 0, nil
		}).AnyTimes(),
	)
	return b
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}

// testConfig returns a Config with short pacing so tests run fast.
func testConfig(d modem.Dialer) modem.Config {
	config, err := modem.NewConfigBuilder().
		WithDialer(d).
		WithPacing(time.Millisecond, time.Millisecond).
		WithWriteRetry(3, time.Millisecond).
		WithChunking(256, time.Millisecond).
		Build()
	if err != nil {
		panic(err)
	}
	return config
}
