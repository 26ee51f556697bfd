package scoring

// markFrontier flags the options whose score vectors are Pareto-optimal, and
// marks a clear winner when a single option dominates every other on all five
// dimensions. O(n^2) dominance check — fine for the handful of options a
// single decision compares.
func markFrontier(results []MCVResult) {
	if len(results) == 0 {
		return
	}
	if len(results) == 1 {
		results[0].Frontier = true
		return
	}

	for i := range results {
		dominated := false
		for j := range results {
			if i == j {
				continue
			}
			if dominates(results[j].Scores, results[i].Scores) {
				dominated = true
				break
			}
		}
		results[i].Frontier = !dominated
	}

	// Clear winner: the top-ranked option dominates everything else.
	top := &results[0]
	winner := true
	for j := 1; j < len(results); j++ {
		if !dominates(top.Scores, results[j].Scores) {
			winner = false
			break
		}
	}
	top.ClearWinner = winner
}

// dominates returns true if a is >= b on every dimension and strictly better
// on at least one.
func dominates(a, b ScoreVector) bool {
	al, bl := a.AsList(), b.AsList()
	strict := false
	for i := range al {
		if al[i] < bl[i] {
			return false
		}
		if al[i] > bl[i] {
			strict = true
		}
	}
	return strict
}
