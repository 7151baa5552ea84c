package libframe

import (
	"git.terah.dev/imterah/gostereo/libscene"
	"github.com/go-gl/mathgl/mgl32"
)

// Interval moves a node between two poses over a fixed duration.
type Interval struct {
	Node     libscene.NodeID
	Duration float32

	FromPos, ToPos mgl32.Vec3
	FromHPR, ToHPR mgl32.Vec3

	elapsed float32
}

// PosInterval moves a node without turning it.
func PosInterval(node libscene.NodeID, duration float32, from, to mgl32.Vec3, hpr mgl32.Vec3) *Interval {
	return &Interval{Node: node, Duration: duration, FromPos: from, ToPos: to, FromHPR: hpr, ToHPR: hpr}
}

// HPRInterval turns a node in place.
func HPRInterval(node libscene.NodeID, duration float32, pos mgl32.Vec3, from, to mgl32.Vec3) *Interval {
	return &Interval{Node: node, Duration: duration, FromPos: pos, ToPos: pos, FromHPR: from, ToHPR: to}
}

// Advance moves time forward and applies the pose. It returns the time left over past the
// end of the interval, or a negative value while the interval is still running.
func (interval *Interval) Advance(graph *libscene.Graph, dt float32) float32 {
	interval.elapsed += dt

	t := float32(1)

	if interval.Duration > 0 {
		t = mgl32.Clamp(interval.elapsed/interval.Duration, 0, 1)
	}

	if node := graph.Get(interval.Node); node != nil {
		node.Pos = lerp(interval.FromPos, interval.ToPos, t)
		node.HPR = lerp(interval.FromHPR, interval.ToHPR, t)
	}

	return interval.elapsed - interval.Duration
}

// Reset rewinds the interval to its start.
func (interval *Interval) Reset() {
	interval.elapsed = 0
}

func lerp(from, to mgl32.Vec3, t float32) mgl32.Vec3 {
	return from.Add(to.Sub(from).Mul(t))
}

// Sequence plays intervals back to back, optionally looping.
type Sequence struct {
	Intervals []*Interval
	Loop      bool

	current int
}

func NewSequence(loop bool, intervals ...*Interval) *Sequence {
	return &Sequence{Intervals: intervals, Loop: loop}
}

// Finished reports whether a non-looping sequence has played out.
func (sequence *Sequence) Finished() bool {
	return sequence.current >= len(sequence.Intervals)
}

// Duration is the length of one pass through the sequence.
func (sequence *Sequence) Duration() float32 {
	var total float32

	for _, interval := range sequence.Intervals {
		total += interval.Duration
	}

	return total
}

// Advance plays dt seconds, carrying left over time into the following intervals.
func (sequence *Sequence) Advance(graph *libscene.Graph, dt float32) {
	for !sequence.Finished() {
		interval := sequence.Intervals[sequence.current]
		overflow := interval.Advance(graph, dt)

		if overflow < 0 {
			return
		}

		interval.Reset()
		sequence.current++
		dt = overflow

		if sequence.Finished() && sequence.Loop {
			sequence.current = 0

			if dt == 0 || sequence.Duration() <= 0 {
				return
			}
		}
	}
}

// Task wraps the sequences as a scheduler task that finishes once every sequence has.
func Task(graph *libscene.Graph, sequences ...*Sequence) TaskFunc {
	return func(dt float32) Status {
		running := false

		for _, sequence := range sequences {
			sequence.Advance(graph, dt)
			running = running || !sequence.Finished()
		}

		if !running {
			return Done
		}

		return Continue
	}
}
