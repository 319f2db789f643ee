package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				maxK := kMax - kMin
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
}

func TestPartitionMapRun(t *testing.T) {
	for _, np := range []int{1, 3, 8} {
		var (
			n       = 101
			visited = make([]int32, n)
			calls   int32
		)
		pm := NewPartitionMap(np, n)
		pm.Run(func(_, kMin, kMax int) {
			atomic.AddInt32(&calls, 1)
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&visited[k], 1)
			}
		})
		assert.Equal(t, int32(np), calls)
		for k := range visited {
			assert.Equal(t, int32(1), visited[k], "index %d", k)
		}
	}
	assert.Equal(t, 4, ResolveParallelDegree(4, 100))
	assert.Equal(t, 3, ResolveParallelDegree(8, 3))
	assert.Equal(t, 1, ResolveParallelDegree(8, 0))
	assert.True(t, ResolveParallelDegree(0, 1000) >= 1)
}

func TestLinspaceMeshgrid(t *testing.T) {
	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5), 1e-15)
	XX, YY := Meshgrid([]float64{0, 1, 2}, []float64{-1, 1})
	r, c := XX.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 2., XX.At(2, 0))
	assert.Equal(t, 1., YY.At(0, 1))
	assert.True(t, IsAscending([]float64{1, 2, 3}))
	assert.False(t, IsAscending([]float64{1, 1, 3}))
	assert.False(t, IsNan([]float64{1, 2}))
	assert.True(t, IsNan([]float64{1, math.NaN()}))
	assert.Equal(t, 1, CountNan([]float64{math.NaN(), 0}))
}
