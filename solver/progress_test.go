package solver

import (
	"testing"
)

func TestChannelProgressMonotone(t *testing.T) {
	ch := NewChannel()

	ch.SendProgress(0.2)
	ch.SendProgress(0.5)
	ch.SendProgress(0.3) // regression is clamped up
	ch.SendProgress(1.7) // overshoot is clamped down

	msgs := ch.Drain()
	want := []float32{0.2, 0.5, 0.5, 1.0}
	if len(msgs) != len(want) {
		t.Fatalf("drained %d messages, want %d", len(msgs), len(want))
	}
	for i, m := range msgs {
		p, ok := m.(Progress)
		if !ok {
			t.Fatalf("message %d is %T, want Progress", i, m)
		}
		if p.Fraction != want[i] {
			t.Errorf("fraction %d = %v, want %v", i, p.Fraction, want[i])
		}
	}
}

func TestChannelTerminalOnce(t *testing.T) {
	ch := NewChannel()

	ch.SendDone(&Result{})
	ch.SendCancelled()
	ch.SendFailed("late")
	ch.SendProgress(0.5)

	msgs := ch.Drain()
	if len(msgs) != 1 {
		t.Fatalf("drained %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(Done); !ok {
		t.Fatalf("message is %T, want Done", msgs[0])
	}

	if again := ch.Drain(); len(again) != 0 {
		t.Errorf("second drain returned %d messages, want 0", len(again))
	}
}

func TestChannelTerminalSurvivesFullBuffer(t *testing.T) {
	ch := NewChannel()

	// Abandoned consumer: fill the buffer far past capacity.
	for i := 0; i < channelCap*2; i++ {
		ch.SendProgress(float32(i) / float32(channelCap*2))
	}
	ch.SendCancelled()

	msgs := ch.Drain()
	if len(msgs) == 0 {
		t.Fatal("drained nothing")
	}
	last := msgs[len(msgs)-1]
	if _, ok := last.(Cancelled); !ok {
		t.Errorf("last message is %T, want Cancelled", last)
	}
	for _, m := range msgs[:len(msgs)-1] {
		if IsTerminal(m) {
			t.Error("terminal message delivered before the end of the stream")
		}
	}
}

func TestChannelAssignmentSnapshotIsolated(t *testing.T) {
	ch := NewChannel()

	assign := []uint32{0, 1, 2, 3}
	ch.SendAssignment(assign)
	assign[0] = 99 // producer keeps mutating its own slice

	msgs := ch.Drain()
	if len(msgs) != 1 {
		t.Fatalf("drained %d messages, want 1", len(msgs))
	}
	got := msgs[0].(AssignmentUpdate).Assignment
	if got[0] != 0 {
		t.Errorf("snapshot[0] = %d, want 0", got[0])
	}
}

func TestDrainEmptyNonBlocking(t *testing.T) {
	ch := NewChannel()
	if msgs := ch.Drain(); len(msgs) != 0 {
		t.Errorf("drained %d messages from empty channel", len(msgs))
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name string
		msg  Msg
		want bool
	}{
		{"progress", Progress{Fraction: 0.5}, false},
		{"preview", PreviewUpdate{}, false},
		{"assignment", AssignmentUpdate{}, false},
		{"done", Done{}, true},
		{"cancelled", Cancelled{}, true},
		{"failed", Failed{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTerminal(tt.msg); got != tt.want {
				t.Errorf("IsTerminal = %v, want %v", got, tt.want)
			}
		})
	}
}
