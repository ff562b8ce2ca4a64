package foam

import (
	"errors"
	"math"
	"testing"

	"github.com/notargets/gofoam/foam/elements"
	"github.com/notargets/gofoam/foam/internal/fixtures"
	"github.com/notargets/gofoam/geometry3D"
	"github.com/notargets/gofoam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var cubeYAML = `
schema:
  - element: body
    name: DENSITY
    type: real
time_steps:
  - vertices:
      - {id: 1, position: [0, 0, 0]}
      - {id: 2, position: [2, 0, 0]}
      - {id: 3, position: [2, 2, 0]}
      - {id: 4, position: [0, 2, 0]}
      - {id: 5, position: [0, 0, 2]}
      - {id: 6, position: [2, 0, 2]}
      - {id: 7, position: [2, 2, 2]}
      - {id: 8, position: [0, 2, 2]}
    edges:
      - {id: 1, begin: 1, end: 2}
      - {id: 2, begin: 2, end: 3}
      - {id: 3, begin: 3, end: 4}
      - {id: 4, begin: 4, end: 1}
      - {id: 5, begin: 5, end: 6}
      - {id: 6, begin: 6, end: 7}
      - {id: 7, begin: 7, end: 8}
      - {id: 8, begin: 8, end: 5}
      - {id: 9, begin: 1, end: 5}
      - {id: 10, begin: 2, end: 6}
      - {id: 11, begin: 3, end: 7}
      - {id: 12, begin: 4, end: 8, attributes: {COLOR: red}}
    faces:
      - {id: 1, edges: [-4, -3, -2, -1]}
      - {id: 2, edges: [5, 6, 7, 8]}
      - {id: 3, edges: [1, 10, -5, -9]}
      - {id: 4, edges: [2, 11, -6, -10]}
      - {id: 5, edges: [3, 12, -7, -11]}
      - {id: 6, edges: [4, 9, -8, -12]}
    bodies:
      - id: 1
        faces: [1, 2, 3, 4, 5, 6]
        attributes: {LAGRANGE_MULTIPLIER: 2.5, VOLUME: 7.5, DENSITY: 0.25}
    t1s:
      - {position: [1, 1, 1], type: pop_edge}
`

// cubeRecords appends an axis aligned cube with corner offset to rts,
// numbering its elements after the ones already there.
func cubeRecords(rts *RawTimeStep, body int, offset r3.Vec, side float64) {
	var (
		vBase   = len(rts.Vertices)
		eBase   = len(rts.Edges)
		fBase   = len(rts.Faces)
		corners = []r3.Vec{
			{}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
			{Z: 1}, {X: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {Y: 1, Z: 1},
		}
		edges = [][2]int{
			{1, 2}, {2, 3}, {3, 4}, {4, 1},
			{5, 6}, {6, 7}, {7, 8}, {8, 5},
			{1, 5}, {2, 6}, {3, 7}, {4, 8},
		}
		faces = [][]int{
			{-4, -3, -2, -1}, {5, 6, 7, 8}, {1, 10, -5, -9},
			{2, 11, -6, -10}, {3, 12, -7, -11}, {4, 9, -8, -12},
		}
		rb = RawBody{ID: body}
	)
	for i, c := range corners {
		p := r3.Add(offset, r3.Scale(side, c))
		rts.Vertices = append(rts.Vertices, RawVertex{ID: vBase + i + 1, Position: [3]float64{p.X, p.Y, p.Z}})
	}
	for i, e := range edges {
		rts.Edges = append(rts.Edges, RawEdge{ID: eBase + i + 1, Begin: vBase + e[0], End: vBase + e[1]})
	}
	for i, f := range faces {
		rf := RawFace{ID: fBase + i + 1}
		for _, si := range f {
			if si < 0 {
				rf.Edges = append(rf.Edges, si-eBase)
			} else {
				rf.Edges = append(rf.Edges, si+eBase)
			}
		}
		rts.Faces = append(rts.Faces, rf)
		rb.Faces = append(rb.Faces, fBase+i+1)
	}
	rts.Bodies = append(rts.Bodies, rb)
}

func TestReadSeries(t *testing.T) {
	rs, err := ReadSeries([]byte(cubeYAML))
	require.NoError(t, err)
	require.Len(t, rs.TimeSteps, 1)
	assert.Len(t, rs.TimeSteps[0].Edges, 12)
	assert.Equal(t, []int{-4, -3, -2, -1}, rs.TimeSteps[0].Faces[0].Edges)

	s, err := NewSeries(rs, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, s.Process())
	f := s.Steps[0]
	assert.False(t, f.Is2D())
	assert.Empty(t, f.FailedBodies())
	b, ok := f.Body(1)
	require.True(t, ok)
	assert.InDelta(t, 8., b.Volume(), 1.e-12)
	assert.InDelta(t, 24., b.Area(), 1.e-12)
	assert.InDelta(t, 7.5, b.TargetVolume(), 1.e-12)
	assert.False(t, b.IsDeduced(elements.TargetVolumeScalar))
	assert.True(t, b.IsDeduced(elements.ActualVolumeScalar))
	// A lone body has the smallest pressure
	assert.InDelta(t, 0., b.Pressure(), 1.e-12)
	density, ok := b.Attributes().Real("DENSITY")
	assert.True(t, ok)
	assert.InDelta(t, .25, density, 1.e-12)
	assert.True(t, b.HasFreeFace())

	t1s := s.T1s(0)
	require.Len(t, t1s, 1)
	assert.Equal(t, types.T1PopEdge, t1s[0].Type)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, t1s[0].Position)
	assert.Empty(t, s.DetectedT1s(0))

	box := f.Box()
	assert.Equal(t, r3.Vec{}, box.Min)
	assert.Equal(t, r3.Vec{X: 2, Y: 2, Z: 2}, box.Max)
}

func TestReadSeriesErrors(t *testing.T) {
	{
		_, err := ReadSeries([]byte("time_steps: []\n"))
		assert.Error(t, err)
		_, err = ReadSeries([]byte("time_steps: [\n"))
		assert.Error(t, err)
	}
	{ // Attributes must be declared
		rs, err := ReadSeries([]byte(cubeYAML))
		require.NoError(t, err)
		rs.Schema = nil
		_, err = NewSeries(rs, DefaultConfig())
		assert.Error(t, err)
	}
	{
		_, err := NewSchema([]RawAttributeDef{{Element: "cell", Name: "X", Type: "real"}})
		assert.Error(t, err)
		_, err = NewSchema([]RawAttributeDef{{Element: "body", Name: "X", Type: "complex"}})
		assert.Error(t, err)
		_, err = NewSchema([]RawAttributeDef{{Element: "body", Name: elements.VolumeAttribute, Type: "integer"}})
		assert.Error(t, err)
	}
	{
		var rts RawTimeStep
		cubeRecords(&rts, 1, r3.Vec{}, 1)
		rts.Faces[2].Edges[1] = 40
		_, err := NewFoam(0, rts, elements.NewAttributeSchema(), DefaultConfig())
		require.Error(t, err)
		assert.True(t, errors.Is(err, elements.ErrInvalidIndex))
	}
	{
		var rts RawTimeStep
		cubeRecords(&rts, 1, r3.Vec{}, 1)
		rts.Periods = [][3]float64{{1, 0, 0}}
		_, err := NewFoam(0, rts, elements.NewAttributeSchema(), DefaultConfig())
		assert.Error(t, err)
		rts.Periods = nil
		rts.T1s = []RawT1{{Type: "t2"}}
		_, err = NewFoam(0, rts, elements.NewAttributeSchema(), DefaultConfig())
		assert.Error(t, err)
	}
}

func TestFoamPeriodic(t *testing.T) {
	f := NewFoamFromMesh(0, fixtures.XPeriodicCube(), DefaultConfig())
	require.NoError(t, f.Process())
	vd, _, fd := f.Duplicates()
	assert.Equal(t, 4, vd)
	assert.Equal(t, 1, fd)
	b := f.ProcessedBodies()[0]
	assert.InDelta(t, 1., b.Volume(), 1.e-12)
	// Y and Z do not wrap
	assert.True(t, b.HasFreeFace())
	// The body neighbors itself, which is not a neighbor pair
	assert.Empty(t, f.Contacts().Pairs())
	assert.Equal(t, 5, f.Contacts().ContactCount(1))
	box := f.Box()
	assert.InDelta(t, 1., box.Max.X-box.Min.X, 1.e-12)
	// Processing twice is a no-op
	require.NoError(t, f.Process())
	vd2, _, _ := f.Duplicates()
	assert.Equal(t, vd, vd2)
}

func malformedFoam(t *testing.T) *elements.MeshBuilder {
	mb := fixtures.Cube(1)
	for i, p := range []r3.Vec{{X: 5}, {X: 6}, {X: 5, Y: 1}} {
		_, err := mb.AddVertex(9+i, p, nil)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := mb.AddEdge(13+i, 9+i, 9+(i+1)%3, geometry3D.Translation{}, elements.EdgeShape{}, nil)
		require.NoError(t, err)
	}
	_, err := mb.AddFace(7, []types.SignedIndex{13, 14, 15}, nil)
	require.NoError(t, err)
	_, err = mb.AddBody(2, []types.SignedIndex{-1, -2, -3, -4, -5, -6, 7}, nil, false)
	require.NoError(t, err)
	return mb
}

func TestFoamFailedBody(t *testing.T) {
	{
		f := NewFoamFromMesh(3, malformedFoam(t), DefaultConfig())
		require.NoError(t, f.Process())
		assert.Equal(t, []int{2}, f.FailedBodies())
		require.Len(t, f.ProcessedBodies(), 1)
		assert.Equal(t, 1, f.ProcessedBodies()[0].ID())
		b, _ := f.Body(2)
		assert.True(t, errors.Is(b.UnwrapError(), elements.ErrMalformedTopology))
		// Body 2 is left out of the neighbors of body 1
		assert.True(t, f.ProcessedBodies()[0].HasFreeFace())
		assert.False(t, f.Contacts().Has(2))
	}
	{
		cfg := DefaultConfig()
		cfg.SkipFailedBodies = false
		f := NewFoamFromMesh(3, malformedFoam(t), cfg)
		err := f.Process()
		require.Error(t, err)
		assert.True(t, errors.Is(err, elements.ErrMalformedTopology))
		assert.False(t, f.IsProcessed())
		assert.Nil(t, f.Contacts())
	}
}

func TestSeriesRates(t *testing.T) {
	var (
		offsets = []r3.Vec{{}, {X: .1}, {X: .2}}
		sides   = []float64{1, 1.1, 1.2}
		rs      = &RawSeries{}
	)
	for i := range offsets {
		var rts RawTimeStep
		cubeRecords(&rts, 1, offsets[i], sides[i])
		rs.TimeSteps = append(rs.TimeSteps, rts)
	}
	cfg := DefaultConfig()
	cfg.TimeInterval = .5
	cfg.ParallelDegree = 2
	s, err := NewSeries(rs, cfg)
	require.NoError(t, err)
	require.NoError(t, s.Process())
	for step := range s.Steps {
		assert.NoError(t, s.StepError(step))
		b, ok := s.Steps[step].Body(1)
		require.True(t, ok)
		v := b.Velocity()
		assert.InDelta(t, .3, v.X, 1.e-9)
		assert.InDelta(t, .1, v.Y, 1.e-9)
		assert.InDelta(t, .1, v.Z, 1.e-9)
		assert.Empty(t, s.T1s(step))
	}
	rate, err := s.VolumeChangeRate(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, (math.Pow(1.1, 3)-1)/.5, rate, 1.e-9)
	rate, err = s.VolumeChangeRate(2, 1)
	require.NoError(t, err)
	assert.InDelta(t, (math.Pow(1.2, 3)-math.Pow(1.1, 3))/.5, rate, 1.e-9)
	_, err = s.VolumeChangeRate(0, 7)
	assert.Error(t, err)
	_, err = s.VolumeChangeRate(5, 1)
	assert.Error(t, err)
}

func TestSeriesVelocityAttribute(t *testing.T) {
	var rts RawTimeStep
	cubeRecords(&rts, 1, r3.Vec{}, 1)
	rts.Bodies[0].Attributes = map[string]interface{}{elements.VelocityAttribute: []interface{}{1., 2., 3.}}
	s, err := NewSeries(&RawSeries{TimeSteps: []RawTimeStep{rts}}, DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, s.Process())
	b, _ := s.Steps[0].Body(1)
	assert.Equal(t, r3.Vec{X: 1, Y: 2, Z: 3}, b.Velocity())
	// A single time step has no rate
	assert.Equal(t, 0., b.VolumeChangeRate())
}

func TestSeriesT1(t *testing.T) {
	var apart RawTimeStep
	cubeRecords(&apart, 1, r3.Vec{}, 1)
	cubeRecords(&apart, 2, r3.Vec{Z: 1.5}, 1)
	cfg := DefaultConfig()
	second, err := NewFoam(1, apart, elements.NewAttributeSchema(), cfg)
	require.NoError(t, err)
	s := NewSeriesFromSteps([]*Foam{NewFoamFromMesh(0, fixtures.StackedCubes(), cfg), second}, cfg)
	require.NoError(t, s.Process())

	assert.True(t, s.Steps[0].Contacts().AreNeighbors(1, 2))
	assert.False(t, s.Steps[1].Contacts().AreNeighbors(1, 2))
	t1s := s.T1s(0)
	require.Len(t, t1s, 1)
	assert.Equal(t, types.T1TriToEdge, t1s[0].Type)
	assert.Equal(t, 0, t1s[0].TimeStep)
	assert.Equal(t, []int{1, 2}, t1s[0].Bodies)
	assert.InDelta(t, .5, t1s[0].Position.X, 1.e-12)
	assert.InDelta(t, .5, t1s[0].Position.Y, 1.e-12)
	assert.InDelta(t, 1., t1s[0].Position.Z, 1.e-12)
	assert.Empty(t, s.T1s(1))
	assert.Nil(t, s.T1s(-1))

	// Body 2 rises by half a cell
	b, _ := s.Steps[0].Body(2)
	assert.InDelta(t, .5, b.Velocity().Z, 1.e-9)
}
