package bytemut

// Stats counts mutations per strategy.
type Stats struct {
	// Total is the number of mutations produced.
	Total uint64
	// Bytes is the summed length of every produced mutant.
	Bytes uint64

	counts [numStrategies]uint64
}

func (st *Stats) record(s Strategy, n int) {
	st.Total++
	st.Bytes += uint64(n)
	st.counts[s]++
}

// Count returns how often s was applied.
func (st Stats) Count(s Strategy) uint64 {
	if !s.Valid() {
		return 0
	}

	return st.counts[s]
}

// Merge returns the sum of st and other.
func (st Stats) Merge(other Stats) Stats {
	st.Total += other.Total
	st.Bytes += other.Bytes

	for i := range st.counts {
		st.counts[i] += other.counts[i]
	}

	return st
}
