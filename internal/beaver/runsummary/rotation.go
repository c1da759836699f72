package runsummary

import lru "github.com/hashicorp/golang-lru"

// rotationCacheSize bounds the rotation-equivalence cache: unlike the
// original's unbounded std::map, long-running meta-loop analyses should not
// grow this without limit.
const rotationCacheSize = 4096

type rotationKey struct {
	minID, maxID int
}

type rotationResult struct {
	equal  bool
	offset int
}

// AreLoopsRotationEqual reports whether two loop RunBlocks' unit sequences
// agree under some cyclic shift, e.g. "A B C" and "B C A". When true,
// offset satisfies index1 = (index2 + offset) mod period. Results are
// memoized by the pair of sequence ids involved.
func (s *Summary) AreLoopsRotationEqual(history History, a, b RunBlock) (bool, int) {
	if a.sequenceID == b.sequenceID {
		return true, 0
	}
	if a.loopPeriod != b.loopPeriod {
		return false, 0
	}
	period := a.loopPeriod

	minID, maxID := a.sequenceID, b.sequenceID
	if minID > maxID {
		minID, maxID = maxID, minID
	}
	key := rotationKey{minID, maxID}
	if s.rotationCache == nil {
		s.rotationCache, _ = lru.New(rotationCacheSize)
	}
	if cached, ok := s.rotationCache.Get(key); ok {
		r := cached.(rotationResult)
		return r.equal, r.offset
	}

	equal, offset := determineRotationEquivalence(history, a.startIndex, b.startIndex, period)
	s.rotationCache.Add(key, rotationResult{equal: equal, offset: offset})
	return equal, offset
}

func determineRotationEquivalence(history History, index1, index2, period int) (bool, int) {
	ci1 := canonicalLoopIndex(history, index1, period)
	ci2 := canonicalLoopIndex(history, index2, period)

	for i := period - 1; i >= 0; i-- {
		if history.UnitIDAt(ci1+i) != history.UnitIDAt(ci2+i) {
			return false, 0
		}
	}

	relIndex1 := ci1 - index1
	relIndex2 := ci2 - index2
	offset := (relIndex1 + period - relIndex2) % period
	if offset < 0 {
		offset += period
	}
	return true, offset
}

// canonicalLoopIndex returns the start offset, relative to the full unit
// history, of the lexicographically-minimal rotation of the period-length
// loop starting at startIndex. Implements Booth's algorithm.
func canonicalLoopIndex(history History, startIndex, period int) int {
	f := make([]int, period)
	for i := range f {
		f[i] = -1
	}

	k := 0
	at := func(offset int) int { return history.UnitIDAt(startIndex + offset) }

	for j := 1; j < period; j++ {
		sj := at(j)
		i := f[j-k-1]
		for i != -1 && sj != at(k+i+1) {
			if sj < at(k+i+1) {
				k = j - i - 1
			}
			i = f[i]
		}
		if sj != at(k+i+1) {
			if sj < at(k) {
				k = j
			}
			f[j-k] = -1
		} else {
			f[j-k] = i + 1
		}
	}

	return startIndex + k
}
