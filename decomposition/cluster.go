package decomposition

import (
	"errors"
	"fmt"
	"sync"

	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/utils"
)

var errAborted = errors.New("rank aborted because another rank failed")

/*
Cluster splits a global grid along axis 0 into ranks. Each rank is driven by its own goroutine
and owns one Decomposition; neighbouring ranks exchange ghost layers over channels.
*/
type Cluster struct {
	Dimension  int
	Global     grid.Range
	Ghost      int
	Periodic   [3]bool
	Partitions *utils.PartitionMap
	ranks      []*Decomposition
	abort      chan struct{}
	abortOnce  sync.Once
	gather     chan rankValue
	broadcast  []chan float64
}

type rankValue struct {
	rank int
	val  float64
}

func NewCluster(N grid.Index, dimension, ghost int, periodic [3]bool, parallelDegree int) (c *Cluster, err error) {
	if dimension < 1 || dimension > 3 {
		err = fmt.Errorf("unsupported spatial dimension %d", dimension)
		return
	}
	for d := 0; d < dimension; d++ {
		if N[d] < max(ghost, 1) {
			err = fmt.Errorf("grid size %d along axis %d is smaller than the ghost width %d", N[d], d, ghost)
			return
		}
	}
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	c = &Cluster{
		Dimension:  dimension,
		Global:     grid.NewRangeFromSize(N, dimension),
		Ghost:      ghost,
		Periodic:   periodic,
		Partitions: utils.NewPartitionMap(parallelDegree, N[0]),
		abort:      make(chan struct{}),
		gather:     make(chan rankValue, parallelDegree),
		broadcast:  make([]chan float64, parallelDegree),
	}
	for d := dimension; d < 3; d++ {
		c.Periodic[d] = false
	}
	if parallelDegree > 1 && c.Partitions.MinBucketDimension() < ghost {
		err = fmt.Errorf("%d cells along axis 0 cannot be split into %d ranks with %d ghost cells each",
			N[0], parallelDegree, ghost)
		c = nil
		return
	}
	c.ranks = make([]*Decomposition, parallelDegree)
	for r := 0; r < parallelDegree; r++ {
		c.broadcast[r] = make(chan float64, 1)
		c.ranks[r] = newDecomposition(c, r)
	}
	return
}

func (c *Cluster) Size() int { return len(c.ranks) }

func (c *Cluster) Decomposition(rank int) *Decomposition { return c.ranks[rank] }

// Owner is the rank whose inner cells hold global index ind, -1 outside the grid
func (c *Cluster) Owner(ind grid.Index) (rank int) {
	if !c.Global.Contains(ind) {
		return -1
	}
	rank, _, _ = c.Partitions.GetBucket(ind[0])
	return
}

/*
Run calls fn once per rank, each in its own goroutine, and waits for all of them.
A rank that fails or panics releases the ranks blocked in an exchange with it.
*/
func (c *Cluster) Run(fn func(d *Decomposition) error) (err error) {
	var (
		wg   sync.WaitGroup
		errs = make([]error, len(c.ranks))
	)
	for r := range c.ranks {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					if pe, ok := p.(error); ok && errors.Is(pe, errAborted) {
						return
					}
					errs[r] = fmt.Errorf("rank %d: %v", r, p)
					c.stop()
				}
			}()
			if e := fn(c.ranks[r]); e != nil {
				errs[r] = fmt.Errorf("rank %d: %w", r, e)
				c.stop()
			}
		}(r)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (c *Cluster) stop() {
	c.abortOnce.Do(func() { close(c.abort) })
}
