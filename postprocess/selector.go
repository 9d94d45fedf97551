package postprocess

// SelectTopK merges the per class survivors of NMS in ascending class order,
// sorts them by descending probability and keeps at most keepTopK of them.
// A keepTopK of zero or less keeps all detections.
func SelectTopK(perClass [][]Detection, keepTopK int) []Detection {

	total := 0

	for _, dets := range perClass {
		total += len(dets)
	}

	merged := make([]Detection, 0, total)

	for _, dets := range perClass {
		merged = append(merged, dets...)
	}

	sortByProbability(merged)

	if keepTopK > 0 && len(merged) > keepTopK {
		merged = merged[:keepTopK]
	}

	return merged
}
