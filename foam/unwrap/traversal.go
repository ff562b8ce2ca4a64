package unwrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/geometry3D"
	"go.uber.org/multierr"
)

type State uint8

const (
	NotStarted State = iota
	InProgress
	Done
	Failed
)

func (s State) String() string {
	return [...]string{"NOT_STARTED", "IN_PROGRESS", "DONE", "FAILED"}[s]
}

type queueEntry struct {
	slot, edgeIndex int
}

/*
BodyTraversal places the faces of one body, breadth first from a start face. Each Step either
places the start face, or pops an edge of a placed face and places the face of the body continuing
across it, translated to meet the placed face exactly. Faces are therefore placed in non decreasing
number of hops from the start face.
*/
type BodyTraversal struct {
	body     *elements.Body
	dup      *Duplicator
	fitter   Fitter
	selector CandidateSelector
	start    int
	state    State
	placed   []bool
	queue    []queueEntry
	order    []int
	err      error
}

func NewBodyTraversal(body *elements.Body, dup *Duplicator, selector CandidateSelector, start int) *BodyTraversal {
	return &BodyTraversal{
		body:     body,
		dup:      dup,
		fitter:   Fitter{Domain: dup.domain, Tol: dup.tol},
		selector: selector,
		start:    start,
		placed:   make([]bool, body.FaceCount()),
	}
}

func (bt *BodyTraversal) State() State { return bt.state }
func (bt *BodyTraversal) Err() error   { return bt.err }

// Order returns the slots in the order they were placed.
func (bt *BodyTraversal) Order() []int { return bt.order }

func (bt *BodyTraversal) fail(err error) State {
	var mt *elements.MalformedTopologyError
	if errors.As(err, &mt) {
		mt.WithBody(bt.body.ID())
	}
	bt.err, bt.state = err, Failed
	return bt.state
}

func (bt *BodyTraversal) place(slot, skipEdge int) {
	bt.placed[slot] = true
	bt.order = append(bt.order, slot)
	for i := 0; i < bt.body.OrientedFace(slot).EdgeCount(); i++ {
		if i != skipEdge {
			bt.queue = append(bt.queue, queueEntry{slot: slot, edgeIndex: i})
		}
	}
}

// hasPlacedPartner reports whether a placed face other than the one in slot
// runs along edge the other way.
func (bt *BodyTraversal) hasPlacedPartner(slot int, edge elements.OrientedEdge) bool {
	for s, ok := range bt.placed {
		if !ok || s == slot {
			continue
		}
		if _, _, fits := bt.fitter.FitFace(bt.body.OrientedFace(s), edge); fits {
			return true
		}
	}
	return false
}

// Step advances the traversal by one queue entry and returns the new state.
func (bt *BodyTraversal) Step() State {
	switch bt.state {
	case Done, Failed:
		return bt.state
	case NotStarted:
		if bt.start < 0 || bt.start >= bt.body.FaceCount() {
			return bt.fail(fmt.Errorf("body %d: start face %d out of range", bt.body.ID(), bt.start))
		}
		bt.state = InProgress
		bt.place(bt.start, elements.Unknown)
		return bt.state
	}
	if len(bt.queue) == 0 {
		for slot, ok := range bt.placed {
			if !ok {
				of := bt.body.OrientedFace(slot)
				return bt.fail(elements.NewMalformedTopologyError(of.Face().ID(), elements.Unknown,
					"face in slot %d is not connected to the rest of the body", slot))
			}
		}
		bt.state = Done
		return bt.state
	}
	entry := bt.queue[0]
	bt.queue = bt.queue[1:]

	current := bt.body.OrientedFace(entry.slot)
	edge := current.OrientedEdge(entry.edgeIndex)
	cands := bt.fitter.Candidates(bt.body, bt.placed, entry.slot, entry.edgeIndex)
	if len(cands) == 0 {
		if !bt.hasPlacedPartner(entry.slot, edge) {
			return bt.fail(elements.NewMalformedTopologyError(current.Face().ID(), entry.edgeIndex,
				"no face of the body continues across the edge"))
		}
		return bt.state
	}
	next, ok := bt.selector.Select(current, edge, cands)
	if !ok {
		return bt.state
	}
	if !next.Translation.IsZero() {
		f := next.Face.Face()
		moved, err := bt.dup.GetFaceDuplicate(f, bt.dup.domain.Translate(f.FirstBegin(), next.Translation))
		if err != nil {
			return bt.fail(err)
		}
		next.Face.SetFace(moved)
	}
	bt.place(next.Slot, next.EdgeIndex)
	return bt.state
}

// Run steps until the traversal is done or failed.
func (bt *BodyTraversal) Run() error {
	for {
		switch bt.Step() {
		case Done:
			return nil
		case Failed:
			return bt.err
		}
	}
}

/*
Unwrapper runs the unwrap phases of one time step: UnwrapFaces on every original face, then
UnwrapBody on every body, then RegisterAdjacency to record which bodies use which faces and edges.
*/
type Unwrapper struct {
	Duplicator *Duplicator
	Selector   CandidateSelector
}

func NewUnwrapper(domain geometry3D.OOBox, tol float64, strategy Strategy) *Unwrapper {
	return &Unwrapper{
		Duplicator: NewDuplicator(domain, tol),
		Selector:   NewSelector(strategy),
	}
}

// UnwrapFaces closes every face, collecting the failures.
func (u *Unwrapper) UnwrapFaces(faces []*elements.Face) (err error) {
	for _, f := range faces {
		err = multierr.Append(err, u.Duplicator.UnwrapFace(f))
	}
	return
}

func (u *Unwrapper) UnwrapBody(b *elements.Body) error { return u.UnwrapBodyFrom(b, 0) }

// UnwrapBodyFrom unwraps b keeping the face in slot start where it is.
// Bodies of a single face (2D) are complete once the face is closed.
func (u *Unwrapper) UnwrapBodyFrom(b *elements.Body, start int) error {
	if b.Is2D() {
		return nil
	}
	bt := NewBodyTraversal(b, u.Duplicator, u.Selector, start)
	if err := bt.Run(); err != nil {
		slog.Debug("unwrap failed", "body", b.ID(), "placed", len(bt.Order()), "faces", b.FaceCount(), "error", err)
		return err
	}
	return nil
}

// RegisterAdjacency records body b on the originals of its faces and edges,
// with the translation of the image b uses.
func RegisterAdjacency(b *elements.Body) {
	for slot, of := range b.OrientedFaces() {
		f := of.Face()
		f.AddAdjacentBody(elements.AdjacentBody{Body: b, Slot: slot, Translation: f.Translation()})
		for i := 0; i < of.EdgeCount(); i++ {
			e := of.OrientedEdge(i).Edge()
			e.AddAdjacentOrientedFace(elements.AdjacentOrientedFace{
				Face:        f,
				Body:        b,
				Slot:        slot,
				EdgeIndex:   i,
				Translation: e.Translation(),
			})
		}
	}
}
