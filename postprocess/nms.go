package postprocess

import (
	"sort"
)

// sortByProbability sorts the detections in place by descending probability,
// detections with equal probability keep their relative order
func sortByProbability(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Probability > dets[j].Probability
	})
}

// SuppressClass performs greedy Non-Maximum Suppression on the candidates of
// a single class.  Candidates are visited in descending probability order and
// kept only if their IoU against every previously kept box is at or below
// iouThreshold.  The candidates slice is not modified.
func SuppressClass(candidates []Detection, iouThreshold float32) []Detection {

	if len(candidates) == 0 {
		return []Detection{}
	}

	sorted := make([]Detection, len(candidates))
	copy(sorted, candidates)
	sortByProbability(sorted)

	areas := make([]float32, len(sorted))

	for i := range sorted {
		areas[i] = sorted[i].Box.Area()
	}

	kept := make([]Detection, 0, len(sorted))
	keptIdx := make([]int, 0, len(sorted))

	for i := range sorted {

		keep := true

		for _, k := range keptIdx {
			if iou(sorted[i].Box, sorted[k].Box, areas[i], areas[k]) > iouThreshold {
				keep = false
				break
			}
		}

		if keep {
			keptIdx = append(keptIdx, i)
			kept = append(kept, sorted[i])
		}
	}

	return kept
}
