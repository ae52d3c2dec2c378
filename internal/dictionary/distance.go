package dictionary

// boundedDistance computes the optimal string alignment variant of the
// Damerau-Levenshtein distance between a and b. When the distance exceeds
// maxEdit the function returns maxEdit+1 without finishing the table, which
// keeps candidate verification cheap.
func boundedDistance(a, b string, maxEdit int) int {
	ra := []rune(a)
	rb := []rune(b)
	la, lb := len(ra), len(rb)

	if la == 0 {
		if lb > maxEdit {
			return maxEdit + 1
		}
		return lb
	}
	if lb == 0 {
		if la > maxEdit {
			return maxEdit + 1
		}
		return la
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > maxEdit {
		return maxEdit + 1
	}

	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			best := min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := prev2[j-2] + 1; t < best {
					best = t
				}
			}
			curr[j] = best
			if best < rowMin {
				rowMin = best
			}
		}
		if rowMin > maxEdit {
			return maxEdit + 1
		}
		prev2, prev, curr = prev, curr, prev2
	}

	d := prev[lb]
	if d > maxEdit {
		return maxEdit + 1
	}
	return d
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
