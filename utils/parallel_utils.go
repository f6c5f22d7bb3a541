package utils

import "fmt"

// PartitionMap splits the cells [0, MaxIndex) of one grid axis into ParallelDegree contiguous buckets
type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions, end is exclusive
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		panic(fmt.Errorf("parallel degree must be at least one, have %d", ParallelDegree))
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// GetBucket finds the bucket holding index k, bucketNum is -1 when k is outside [0, MaxIndex)
func (pm *PartitionMap) GetBucket(k int) (bucketNum, min, max int) {
	_, bucketNum, min, max = pm.getBucketWithTryCount(k)
	return
}

func (pm *PartitionMap) getBucketWithTryCount(k int) (tryCount, bucketNum, min, max int) {
	if k < 0 || k >= pm.MaxIndex {
		return 0, -1, 0, 0
	}
	// Initial guess assumes equal buckets, off by at most one
	bucketNum = pm.ParallelDegree * k / pm.MaxIndex
	for !(pm.Partitions[bucketNum][0] <= k && pm.Partitions[bucketNum][1] > k) {
		if pm.Partitions[bucketNum][0] > k {
			bucketNum--
		} else {
			bucketNum++
		}
		tryCount++
	}
	min, max = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (kMax int) {
	if bn == -1 {
		kMax = pm.MaxIndex
		return
	}
	var (
		k1, k2 = pm.GetBucketRange(bn)
	)
	kMax = k2 - k1
	return
}

// MinBucketDimension is the width of the narrowest bucket
func (pm *PartitionMap) MinBucketDimension() (kMin int) {
	kMin = pm.MaxIndex
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin = min(kMin, pm.GetBucketDimension(bn))
	}
	return
}

/*
Neighbors returns the buckets adjacent to bn, wrapping around the ends when periodic.
A missing neighbour is -1. With a single periodic bucket the bucket is its own neighbour.
*/
func (pm *PartitionMap) Neighbors(bn int, periodic bool) (low, high int) {
	low, high = bn-1, bn+1
	if periodic {
		low = (bn - 1 + pm.ParallelDegree) % pm.ParallelDegree
		high = (bn + 1) % pm.ParallelDegree
		return
	}
	if high == pm.ParallelDegree {
		high = -1
	}
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// This routine splits one dimension into ParallelDegree pieces, with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}
