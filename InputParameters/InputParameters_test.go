package InputParameters

import (
	"math"
	"testing"

	"github.com/notargets/gofoam/foam"
	"github.com/notargets/gofoam/foam/unwrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoamParameters(t *testing.T) {
	{ // Defaults round trip to the default configuration
		cfg, err := Defaults().Config()
		require.NoError(t, err)
		def := foam.DefaultConfig()
		assert.Equal(t, def.Strategy, cfg.Strategy)
		assert.InDelta(t, def.GroupAngle, cfg.GroupAngle, 1.e-15)
		assert.Equal(t, def.Tolerance, cfg.Tolerance)
		assert.Equal(t, def.SkipFailedBodies, cfg.SkipFailedBodies)
		assert.Equal(t, def.AdjustPressure, cfg.AdjustPressure)
	}
	{
		fp := Defaults()
		require.NoError(t, fp.Parse([]byte(`
Title: "two bubbles"
FitStrategy: triangle
NormalGroupAngle: 1
SkipFailedBodies: false
TimeInterval: 0.25
ParallelDegree: 4
`)))
		assert.Equal(t, "two bubbles", fp.Title)
		// Absent keys keep their defaults
		assert.True(t, fp.AdjustPressure)
		cfg, err := fp.Config()
		require.NoError(t, err)
		assert.Equal(t, unwrap.TriangleStrategy, cfg.Strategy)
		assert.InDelta(t, math.Pi/180, cfg.GroupAngle, 1.e-15)
		assert.False(t, cfg.SkipFailedBodies)
		assert.Equal(t, .25, cfg.TimeInterval)
		assert.Equal(t, 4, cfg.ParallelDegree)
	}
	{
		fp := Defaults()
		require.NoError(t, fp.Parse([]byte("FitStrategy: spiral\n")))
		_, err := fp.Config()
		assert.Error(t, err)
		fp = Defaults()
		fp.TimeInterval = -1
		_, err = fp.Config()
		assert.Error(t, err)
		assert.Error(t, fp.Parse([]byte("Tolerance: [\n")))
	}
}
