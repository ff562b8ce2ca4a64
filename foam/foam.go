// Package foam assembles the elements of each time step of a foam simulation, unwraps its bodies
// across the periodic domain and computes their derived properties.
package foam

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/foam/properties"
	"github.com/notargets/gofoam/foam/unwrap"
	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"github.com/notargets/gofoam/utils"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/spatial/r3"
)

type Config struct {
	Tolerance         float64 // position matching tolerance, relative above magnitude 1
	Strategy          unwrap.Strategy
	GroupAngle        float64 // radians, normals closer than this form one group
	AdjustPressure    bool
	SkipFailedBodies  bool // otherwise a body that fails to unwrap fails its time step
	QuadraticSegments int
	TimeInterval      float64 // simulated time between consecutive time steps
	ParallelDegree    int     // time steps processed at once, 0 is one per CPU
}

func DefaultConfig() Config {
	return Config{
		Tolerance:         utils.GEOMTOL,
		Strategy:          unwrap.NormalGroupStrategy,
		GroupAngle:        utils.ANGLETOL,
		AdjustPressure:    true,
		SkipFailedBodies:  true,
		QuadraticSegments: elements.DefaultQuadraticSegments,
		TimeInterval:      1,
	}
}

func (cfg Config) newUnwrapper(domain geometry3D.OOBox) *unwrap.Unwrapper {
	u := unwrap.NewUnwrapper(domain, cfg.Tolerance, cfg.Strategy)
	if cfg.Strategy == unwrap.NormalGroupStrategy && cfg.GroupAngle > 0 {
		u.Selector = unwrap.NormalGroupSelector{GroupAngle: cfg.GroupAngle}
	}
	return u
}

/*
Foam holds every element of one time step. It owns its elements and their duplicates, so separate
time steps can be processed concurrently.
*/
type Foam struct {
	TimeStep  int
	Domain    geometry3D.OOBox
	cfg       Config
	mesh      *elements.MeshBuilder
	bodyByID  map[int]*elements.Body
	inputT1s  []types.T1
	failed    map[int]error
	processed []*elements.Body
	contacts  *properties.ContactMap
	unwrapper *unwrap.Unwrapper
	done      bool
}

// NewFoam builds the elements of time step step from its raw records.
func NewFoam(step int, raw RawTimeStep, schema *elements.AttributeSchema, cfg Config) (f *Foam, err error) {
	var domain geometry3D.OOBox
	if domain, err = geometry3D.NewOOBoxFromPeriods(raw.Periods); err != nil {
		return nil, fmt.Errorf("time step %d: %w", step, err)
	}
	mb := elements.NewMeshBuilder(domain)
	if cfg.QuadraticSegments > 0 {
		mb.QuadraticSegments = cfg.QuadraticSegments
	}
	if err = build(mb, raw, schema); err != nil {
		return nil, fmt.Errorf("time step %d: %w", step, err)
	}
	f = &Foam{
		TimeStep: step,
		Domain:   domain,
		cfg:      cfg,
		mesh:     mb,
		bodyByID: make(map[int]*elements.Body, len(mb.Bodies)),
		failed:   make(map[int]error),
	}
	for _, b := range mb.Bodies {
		f.bodyByID[b.ID()] = b
	}
	for i, rt := range raw.T1s {
		var tt types.T1Type
		if tt, err = types.NewT1Type(rt.Type); err != nil {
			return nil, fmt.Errorf("time step %d, T1 %d: %w", step, i, err)
		}
		f.inputT1s = append(f.inputT1s, types.T1{
			Position: r3.Vec{X: rt.Position[0], Y: rt.Position[1], Z: rt.Position[2]},
			Type:     tt,
			TimeStep: step,
		})
	}
	return
}

func build(mb *elements.MeshBuilder, raw RawTimeStep, schema *elements.AttributeSchema) (err error) {
	var attrs elements.Attributes
	for _, rv := range raw.Vertices {
		if attrs, err = schema.Parse(types.VertexElement, rv.Attributes); err != nil {
			return
		}
		pos := r3.Vec{X: rv.Position[0], Y: rv.Position[1], Z: rv.Position[2]}
		if _, err = mb.AddVertex(rv.ID, pos, attrs); err != nil {
			return
		}
	}
	for _, re := range raw.Edges {
		if attrs, err = schema.Parse(types.EdgeElement, re.Attributes); err != nil {
			return
		}
		shape := elements.EdgeShape{Middle: re.Middle}
		for _, p := range re.Points {
			shape.Points = append(shape.Points, r3.Vec{X: p[0], Y: p[1], Z: p[2]})
		}
		t := geometry3D.Translation(re.EndTranslation)
		if _, err = mb.AddEdge(re.ID, re.Begin, re.End, t, shape, attrs); err != nil {
			return
		}
	}
	for _, rf := range raw.Faces {
		if attrs, err = schema.Parse(types.FaceElement, rf.Attributes); err != nil {
			return
		}
		if _, err = mb.AddFace(rf.ID, signedIndices(rf.Edges), attrs); err != nil {
			return
		}
	}
	for _, rb := range raw.Bodies {
		if attrs, err = schema.Parse(types.BodyElement, rb.Attributes); err != nil {
			return
		}
		if _, err = mb.AddBody(rb.ID, signedIndices(rb.Faces), attrs, rb.Object); err != nil {
			return
		}
	}
	return
}

// NewFoamFromMesh wraps elements that were built directly.
func NewFoamFromMesh(step int, mb *elements.MeshBuilder, cfg Config) *Foam {
	f := &Foam{
		TimeStep: step,
		Domain:   mb.Domain,
		cfg:      cfg,
		mesh:     mb,
		bodyByID: make(map[int]*elements.Body, len(mb.Bodies)),
		failed:   make(map[int]error),
	}
	for _, b := range mb.Bodies {
		f.bodyByID[b.ID()] = b
	}
	return f
}

/*
Process unwraps every face and body and computes the body properties. A body that cannot be
unwrapped is excluded from the properties; with SkipFailedBodies the time step carries on without
it, otherwise Process returns the combined failures and computes nothing.
*/
func (f *Foam) Process() (err error) {
	if f.done {
		return nil
	}
	f.unwrapper = f.cfg.newUnwrapper(f.Domain)
	badFaces := make(map[*elements.Face]error)
	for _, face := range f.mesh.SortedFaces() {
		if ferr := f.unwrapper.Duplicator.UnwrapFace(face); ferr != nil {
			badFaces[face] = ferr
		}
	}
	for _, b := range f.mesh.Bodies {
		var berr error
		for _, of := range b.OrientedFaces() {
			if ferr, ok := badFaces[of.Face()]; ok {
				berr = fmt.Errorf("body %d: %w", b.ID(), ferr)
				break
			}
		}
		if berr == nil {
			berr = f.unwrapper.UnwrapBody(b)
		}
		if berr != nil {
			b.SetUnwrapError(berr)
			f.failed[b.ID()] = berr
			err = multierr.Append(err, berr)
			slog.Warn("body excluded", "step", f.TimeStep, "body", b.ID(), "error", berr)
			continue
		}
		f.processed = append(f.processed, b)
	}
	if err != nil && !f.cfg.SkipFailedBodies {
		return fmt.Errorf("time step %d: %w", f.TimeStep, err)
	}
	for _, b := range f.processed {
		unwrap.RegisterAdjacency(b)
		properties.CalculateGeometry(b)
		properties.ResolveScalars(b)
		if b.Volume() <= 0 {
			slog.Warn("body clamped", "step", f.TimeStep, "body", b.ID(),
				"error", fmt.Errorf("volume %g: %w", b.Volume(), elements.ErrDegenerateGeometry))
		}
	}
	if f.cfg.AdjustPressure {
		properties.AdjustPressure(f.processed)
	}
	for _, b := range f.processed {
		properties.CalculateNeighborsAndGrowthRate(b)
		properties.CalculateDeformationTensor(b)
	}
	f.contacts = properties.NewContactMapFromBodies(f.processed)
	f.done = true
	vd, ed, fd := f.unwrapper.Duplicator.Counts()
	slog.Info("time step processed", "step", f.TimeStep, "bodies", len(f.processed),
		"failed", len(f.failed), "vertex_duplicates", vd, "edge_duplicates", ed, "face_duplicates", fd)
	return nil
}

func (f *Foam) IsProcessed() bool                 { return f.done }
func (f *Foam) Bodies() []*elements.Body          { return f.mesh.Bodies }
func (f *Foam) ProcessedBodies() []*elements.Body { return f.processed }
func (f *Foam) Mesh() *elements.MeshBuilder       { return f.mesh }

// Contacts is nil until Process succeeds.
func (f *Foam) Contacts() *properties.ContactMap { return f.contacts }

// InputT1s are the T1s listed with the time step records.
func (f *Foam) InputT1s() []types.T1 { return f.inputT1s }

func (f *Foam) Body(id int) (*elements.Body, bool) {
	b, ok := f.bodyByID[id]
	return b, ok
}

// FailedBodies returns the ids of the bodies that could not be unwrapped.
func (f *Foam) FailedBodies() (ids []int) {
	for id := range f.failed {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

func (f *Foam) Is2D() bool {
	return len(f.mesh.Bodies) != 0 && f.mesh.Bodies[0].Is2D()
}

// Duplicates counts the vertex, edge and face images created by unwrapping.
func (f *Foam) Duplicates() (vertices, edges, faces int) {
	if f.unwrapper == nil {
		return
	}
	return f.unwrapper.Duplicator.Counts()
}

// Box bounds the unwrapped vertices of the processed bodies.
func (f *Foam) Box() r3.Box {
	box := geometry3D.EmptyBox()
	for _, b := range f.processed {
		for _, of := range b.OrientedFaces() {
			for _, p := range of.Points() {
				box = geometry3D.ExtendBox(box, p)
			}
		}
	}
	return box
}

// PrintStatistics writes a summary of the time step to w.
func (f *Foam) PrintStatistics(w io.Writer) {
	dim := 3
	if f.Is2D() {
		dim = 2
	}
	vd, ed, fd := f.Duplicates()
	fmt.Fprintf(w, "Time Step %d Statistics:\n", f.TimeStep)
	fmt.Fprintf(w, "  Dimension: %dD\n", dim)
	fmt.Fprintf(w, "  Domain: %s\n", f.Domain)
	fmt.Fprintf(w, "  Vertices: %d\n", len(f.mesh.Vertices))
	fmt.Fprintf(w, "  Edges: %d\n", len(f.mesh.Edges))
	fmt.Fprintf(w, "  Faces: %d\n", len(f.mesh.Faces))
	fmt.Fprintf(w, "  Bodies: %d (%d failed)\n", len(f.mesh.Bodies), len(f.failed))
	fmt.Fprintf(w, "  Duplicates: %d vertices, %d edges, %d faces\n", vd, ed, fd)
	if f.contacts != nil {
		fmt.Fprintf(w, "  Neighbor pairs: %d\n", len(f.contacts.Pairs()))
	}
	for _, id := range f.FailedBodies() {
		fmt.Fprintf(w, "  Failed body %d: %v\n", id, f.failed[id])
	}
}
