package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"i4.energy/across/answerd/modem"
	"i4.energy/across/answerd/session"
)

// transitions records the states a session passes through.
type transitions struct {
	mu     sync.Mutex
	states []session.State
}

func (tr *transitions) record(_, next session.State) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.states = append(tr.states, next)
}

func (tr *transitions) seen(s session.State) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for _, st := range tr.states {
		if st == s {
			return true
		}
	}
	return false
}

func (tr *transitions) list() []session.State {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]session.State(nil), tr.states...)
}

type fixture struct {
	session     *session.Session
	modem       *modem.Modem
	transport   *modem.TestTransport
	transitions *transitions
}

// newFixture builds a session on a scripted fake modem with every pause
// shortened.
func newFixture(t *testing.T, mode session.Mode, tweak func(*session.Config)) *fixture {
	t.Helper()

	tt := modem.NewTestTransport()
	tt.SetCarrier(true)

	mcfg, err := modem.NewConfigBuilder().
		WithDialer(tt.Dialer()).
		WithATTimeout(500*time.Millisecond).
		WithReadSlice(50*time.Millisecond).
		WithPacing(time.Millisecond, time.Millisecond).
		WithWriteRetry(3, time.Millisecond).
		WithChunking(256, time.Millisecond).
		Build()
	if err != nil {
		t.Fatalf("unexpected error from Build(): %v", err)
	}
	m, err := modem.New(context.Background(), mcfg)
	if err != nil {
		t.Fatalf("unexpected error from modem.New(): %v", err)
	}

	tr := &transitions{}
	config := session.Config{
		Mode:               mode,
		BaudRate:           4800,
		ATTimeout:          500 * time.Millisecond,
		AnswerTimeout:      500 * time.Millisecond,
		RingWaitTimeout:    time.Second,
		RingIdleTimeout:    time.Second,
		ConnectTimeout:     time.Second,
		CarrierDetect:      true,
		ValidationDuration: 30 * time.Millisecond,
		ValidationInterval: 10 * time.Millisecond,
		Recovery:           true,
		RecoveryPause:      10 * time.Millisecond,
		WakeUpPause:        time.Millisecond,
		HangupSettle:       time.Millisecond,
		HangupTimeout:      100 * time.Millisecond,
		ClientSettle:       time.Millisecond,
		MessageGap:         time.Millisecond,
		FinalWait:          time.Millisecond,
		FirstMessage:       "HELLO",
		SecondMessage:      "BYE",
		OnTransition:       tr.record,
	}
	if tweak != nil {
		tweak(&config)
	}

	s, err := session.New(m, config)
	if err != nil {
		t.Fatalf("unexpected error from session.New(): %v", err)
	}
	t.Cleanup(func() { s.Shutdown() })

	return &fixture{session: s, modem: m, transport: tt, transitions: tr}
}

// armed runs Initialize and ArmAutoAnswer.
func (f *fixture) armed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := f.session.Initialize(ctx); err != nil {
		t.Fatalf("Initialize(): %v", err)
	}
	if err := f.session.ArmAutoAnswer(ctx); err != nil {
		t.Fatalf("ArmAutoAnswer(): %v", err)
	}
}

func count(items []string, want string) int {
	n := 0
	for _, it := range items {
		if it == want {
			n++
		}
	}
	return n
}
