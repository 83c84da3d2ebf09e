package rollback

import "github.com/automoto/gridduel/shared/input"

// Frame numbers session frames. It is independent of the simulation's
// in-round frame counter.
type Frame int32

const NullFrame Frame = -1

const queueSize = 128

// inputQueue is a ring buffer of one player's inputs. Confirmed inputs are
// contiguous from frame 0 to last. Each slot is tagged with its frame so a
// lookup can tell a live entry from one that has been overwritten.
type inputQueue struct {
	inputs [queueSize]input.Bits
	frames [queueSize]Frame
	last   Frame

	// prediction used the last time a frame was simulated unconfirmed
	predicted      [queueSize]input.Bits
	predictedFrame [queueSize]Frame

	// inputs from disconnectFrame on are blank and confirmed
	disconnectFrame Frame
}

func newInputQueue() *inputQueue {
	q := &inputQueue{last: NullFrame, disconnectFrame: NullFrame}
	for i := range q.frames {
		q.frames[i] = NullFrame
		q.predictedFrame[i] = NullFrame
	}
	return q
}

func slot(f Frame) int {
	return int(f) % queueSize
}

// add confirms the input for frame f. Inputs must arrive in order; older or
// gapped frames are ignored and reported as not added.
func (q *inputQueue) add(f Frame, in input.Bits) bool {
	if f != q.last+1 {
		return false
	}
	q.inputs[slot(f)] = in
	q.frames[slot(f)] = f
	q.last = f
	return true
}

// confirmed reports whether the input for f is known.
func (q *inputQueue) confirmed(f Frame) bool {
	if q.disconnected() && f >= q.disconnectFrame {
		return true
	}
	return f <= q.last
}

// get returns the input for f. Unconfirmed frames repeat the last confirmed
// input.
func (q *inputQueue) get(f Frame) (in input.Bits, ok bool) {
	if q.disconnected() && f >= q.disconnectFrame {
		return input.Blank, true
	}
	if f <= q.last {
		if q.frames[slot(f)] == f {
			return q.inputs[slot(f)], true
		}
		return input.Blank, false
	}
	if q.last == NullFrame {
		return input.Blank, false
	}
	return q.inputs[slot(q.last)], false
}

// since returns the confirmed inputs for frames [from, q.last] along with
// the first frame returned, which is later than from when the older
// entries have been overwritten.
func (q *inputQueue) since(from Frame) (Frame, []byte) {
	if from < 0 {
		from = 0
	}
	if q.last-from >= queueSize {
		from = q.last - queueSize + 1
	}
	var out []byte
	for f := from; f <= q.last; f++ {
		out = append(out, byte(q.inputs[slot(f)]))
	}
	return from, out
}

func (q *inputQueue) recordPrediction(f Frame, in input.Bits) {
	q.predicted[slot(f)] = in
	q.predictedFrame[slot(f)] = f
}

// mispredicted reports whether f was simulated with a prediction that
// differs from in.
func (q *inputQueue) mispredicted(f Frame, in input.Bits) bool {
	return q.predictedFrame[slot(f)] == f && q.predicted[slot(f)] != in
}

func (q *inputQueue) disconnected() bool {
	return q.disconnectFrame != NullFrame
}

// disconnect confirms blank input from the first unconfirmed frame on and
// returns that frame.
func (q *inputQueue) disconnect() Frame {
	if !q.disconnected() {
		q.disconnectFrame = q.last + 1
	}
	return q.disconnectFrame
}
