package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Buckets tile [0, maxIndex) in order with an imbalance of at most one
		sizes := func(maxIndex, np int) (histo map[int]int) {
			pm := NewPartitionMap(np, maxIndex)
			histo = make(map[int]int)
			next := 0
			for n := 0; n < pm.ParallelDegree; n++ {
				kMin, kMax := pm.GetBucketRange(n)
				assert.Equal(t, next, kMin)
				next = kMax
				histo[kMax-kMin]++
			}
			assert.Equal(t, maxIndex, next)
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, sizes(2, 32))
		assert.Equal(t, map[int]int{1: 32}, sizes(32, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, sizes(287, 32))
		for n := 64; n < 2000; n++ {
			histo := sizes(n, 8)
			assert.True(t, len(histo) <= 2)
			if len(histo) == 2 {
				q := n / 8
				assert.Equal(t, map[int]int{q: 8 - n%8, q + 1: n % 8}, histo)
			}
		}
	}
	{
		assert.Equal(t, 3, ParallelDegree(3, 10))
		assert.Equal(t, 2, ParallelDegree(8, 2))
		assert.Equal(t, 1, ParallelDegree(4, 0))
		assert.True(t, ParallelDegree(0, 1000) >= 1)
	}
}
