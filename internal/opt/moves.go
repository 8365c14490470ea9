package opt

import "time"

// edgeCost prices the edge between two nodes. The search uses either the raw
// distance or the penalty-augmented distance.
type edgeCost func(a, b int) float64

type moveKind uint8

const (
	moveNone moveKind = iota
	move2Opt
	moveOrOpt
)

// maxSegment is the longest segment Or-opt will relocate.
const maxSegment = 3

// move is a candidate tour edit. For 2-opt, t[i..k] is reversed. For Or-opt,
// the segment t[i..i+seg-1] is moved between t[j] and t[j+1], reversed when rev.
type move struct {
	kind  moveKind
	i, k  int
	j     int
	seg   int
	rev   bool
	delta float64
}

func (mv move) improves() bool { return mv.kind != moveNone && mv.delta < -tieEps }

// deltaWith prices mv against the tour t under c.
func (mv move) deltaWith(t Tour, c edgeCost) float64 {
	switch mv.kind {
	case move2Opt:
		a, b, x, y := t[mv.i-1], t[mv.i], t[mv.k], t[mv.k+1]
		return c(a, x) + c(b, y) - c(a, b) - c(x, y)
	case moveOrOpt:
		first, last := t[mv.i], t[mv.i+mv.seg-1]
		p, nx := t[mv.i-1], t[mv.i+mv.seg]
		x, y := t[mv.j], t[mv.j+1]
		removed := c(p, first) + c(last, nx) - c(p, nx)
		if mv.rev {
			first, last = last, first
		}
		return c(x, first) + c(last, y) - c(x, y) - removed
	}
	return 0
}

// deadlineStride is how many candidates bestMove prices between clock reads.
const deadlineStride = 4096

// bestMove scans the 2-opt and Or-opt neighbourhoods of t and returns the
// cheapest move under c. Scan order is fixed so equal deltas resolve the
// same way on every run. A non-zero deadline is checked every
// deadlineStride candidates; once it passes the scan is abandoned and ok
// is false.
func bestMove(t Tour, c edgeCost, deadline time.Time) (best move, ok bool) {
	n := len(t) - 1
	best = move{kind: moveNone}
	priced := 0

	// consider reports false when the deadline has passed.
	consider := func(mv move) bool {
		mv.delta = mv.deltaWith(t, c)
		if best.kind == moveNone || mv.delta < best.delta-tieEps {
			best = mv
		}
		priced++
		if priced%deadlineStride == 0 && !deadline.IsZero() && !time.Now().Before(deadline) {
			return false
		}
		return true
	}

	for i := 1; i < n-1; i++ {
		for k := i + 1; k < n; k++ {
			if !consider(move{kind: move2Opt, i: i, k: k}) {
				return move{kind: moveNone}, false
			}
		}
	}
	for seg := 1; seg <= maxSegment; seg++ {
		for i := 1; i+seg-1 <= n-1; i++ {
			for j := 0; j < n; j++ {
				if j >= i-1 && j <= i+seg-1 {
					continue
				}
				if !consider(move{kind: moveOrOpt, i: i, j: j, seg: seg}) {
					return move{kind: moveNone}, false
				}
				if seg > 1 && !consider(move{kind: moveOrOpt, i: i, j: j, seg: seg, rev: true}) {
					return move{kind: moveNone}, false
				}
			}
		}
	}
	return best, true
}

// apply edits t in place. The start node stays at both ends.
func (mv move) apply(t Tour) {
	switch mv.kind {
	case move2Opt:
		for a, b := mv.i, mv.k; a < b; a, b = a+1, b-1 {
			t[a], t[b] = t[b], t[a]
		}
	case moveOrOpt:
		segment := append([]int(nil), t[mv.i:mv.i+mv.seg]...)
		if mv.rev {
			for a, b := 0, len(segment)-1; a < b; a, b = a+1, b-1 {
				segment[a], segment[b] = segment[b], segment[a]
			}
		}
		rest := make([]int, 0, len(t))
		rest = append(rest, t[:mv.i]...)
		rest = append(rest, t[mv.i+mv.seg:]...)
		pos := mv.j
		if mv.j > mv.i {
			pos -= mv.seg
		}
		w := copy(t, rest[:pos+1])
		w += copy(t[w:], segment)
		copy(t[w:], rest[pos+1:])
	}
}
