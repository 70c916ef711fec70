package solver

// Msg is one status message from a running solve. The set of variants is
// closed: Progress, PreviewUpdate, AssignmentUpdate, Done, Cancelled and
// Failed. Done, Cancelled and Failed are terminal; nothing follows them.
type Msg interface {
	isMsg()
}

// Progress reports the completed fraction of the solve in [0,1].
// Fractions are non-decreasing over the life of a job.
type Progress struct {
	Fraction float32
}

// PreviewUpdate carries a work-in-progress RGB image (3 bytes per pixel,
// row-major) reflecting the current partial assignment.
type PreviewUpdate struct {
	Width  int
	Height int
	Pix    []byte
}

// AssignmentUpdate carries a snapshot of the current best assignment so a
// consumer can animate work in progress.
type AssignmentUpdate struct {
	Assignment []uint32
}

// Done carries the final result. Emitted exactly once per completed job.
type Done struct {
	Result *Result
}

// Cancelled reports that the solve stopped in response to a cancellation
// request. Not an error; partial results are discarded.
type Cancelled struct{}

// Failed reports a terminal solve error. The job is abandoned and no
// assignment is delivered.
type Failed struct {
	Message string
}

func (Progress) isMsg()         {}
func (PreviewUpdate) isMsg()    {}
func (AssignmentUpdate) isMsg() {}
func (Done) isMsg()             {}
func (Cancelled) isMsg()        {}
func (Failed) isMsg()           {}

// IsTerminal reports whether m ends its job's message stream.
func IsTerminal(m Msg) bool {
	switch m.(type) {
	case Done, Cancelled, Failed:
		return true
	}
	return false
}

// channelCap bounds buffered messages. The consumer drains every frame, so
// the buffer only fills when the consumer is gone or stalled; state
// messages are droppable in that case, terminal messages are not.
const channelCap = 256

// Channel is the one-directional, ordered message stream from a solve
// worker to the job owner. One producer goroutine, one consumer. State
// messages (Progress/Preview/Assignment) may be dropped under backpressure
// since only the most recent matters; terminal messages are never dropped
// and are sent at most once, after which the channel accepts nothing.
type Channel struct {
	msgs chan Msg

	// Producer-side state, touched only by the solve goroutine.
	lastFraction float32
	terminal     bool
}

// NewChannel creates an empty progress channel.
func NewChannel() *Channel {
	return &Channel{msgs: make(chan Msg, channelCap)}
}

// SendProgress emits a progress fraction, clamped so the consumer observes
// a non-decreasing sequence capped at 1.
func (c *Channel) SendProgress(fraction float32) {
	if c.terminal {
		return
	}
	if fraction < c.lastFraction {
		fraction = c.lastFraction
	}
	if fraction > 1 {
		fraction = 1
	}
	c.lastFraction = fraction
	c.trySend(Progress{Fraction: fraction})
}

// SendPreview emits a work-in-progress preview image. The pixel buffer is
// owned by the channel after the call.
func (c *Channel) SendPreview(width, height int, pix []byte) {
	if c.terminal {
		return
	}
	c.trySend(PreviewUpdate{Width: width, Height: height, Pix: pix})
}

// SendAssignment emits a snapshot of the current best assignment. The
// slice is copied so the solver can keep mutating its own.
func (c *Channel) SendAssignment(assign []uint32) {
	if c.terminal {
		return
	}
	snapshot := make([]uint32, len(assign))
	copy(snapshot, assign)
	c.trySend(AssignmentUpdate{Assignment: snapshot})
}

// SendDone emits the terminal success message and seals the channel.
func (c *Channel) SendDone(result *Result) {
	c.lastFraction = 1
	c.sendTerminal(Done{Result: result})
}

// SendCancelled emits the terminal cancellation message and seals the
// channel.
func (c *Channel) SendCancelled() {
	c.sendTerminal(Cancelled{})
}

// SendFailed emits the terminal error message and seals the channel.
func (c *Channel) SendFailed(message string) {
	c.sendTerminal(Failed{Message: message})
}

// trySend delivers a state message without blocking; drops it if the
// buffer is full.
func (c *Channel) trySend(m Msg) {
	select {
	case c.msgs <- m:
	default:
	}
}

// sendTerminal delivers a terminal message, evicting buffered state
// messages if an abandoned consumer left the buffer full, then closes the
// stream.
func (c *Channel) sendTerminal(m Msg) {
	if c.terminal {
		return
	}
	c.terminal = true
	for {
		select {
		case c.msgs <- m:
			close(c.msgs)
			return
		default:
		}
		// Buffer full: discard the oldest state message and retry.
		select {
		case <-c.msgs:
		default:
		}
	}
}

// Drain returns all buffered messages in emission order without blocking.
// A terminal message, if present, is the last element returned; subsequent
// calls return nothing.
func (c *Channel) Drain() []Msg {
	var out []Msg
	for {
		select {
		case m, ok := <-c.msgs:
			if !ok {
				return out
			}
			out = append(out, m)
			if IsTerminal(m) {
				return out
			}
		default:
			return out
		}
	}
}
