package board

// MergeLine applies the 2048 slide to a single line of tiles, compacting
// toward index 0. Each tile takes part in at most one merge per slide, so
// [2,2,2,2] becomes [4,4,0,0] and never [8,0,0,0]. It returns the new line
// and the sum of the tiles created by merging.
func MergeLine(line [Dim]int) ([Dim]int, int) {
	var compact [Dim]int
	n := 0
	for _, v := range line {
		if v != 0 {
			compact[n] = v
			n++
		}
	}

	var merged [Dim]int
	gained := 0
	w := 0
	for i := 0; i < n; {
		// A value produced by a merge is written out immediately and i skips
		// past both of its sources, so it can never be compared again.
		if i+1 < n && compact[i] == compact[i+1] {
			v := compact[i] * 2
			merged[w] = v
			gained += v
			i += 2
		} else {
			merged[w] = compact[i]
			i++
		}
		w++
	}
	return merged, gained
}
