package roam

// feedbackControllerBias is the hardcoded offset from the original source
// (spec section 4.9) folded into the proportional term below.
const feedbackControllerBias = 100000

// updateFrameVariance implements the FeedbackController (spec section 2/4.9):
// it nudges frameVariance toward the value that would hold the next frame's
// triangle count near wantedTris, using the count of still-free vertex
// slots after Render as the error signal.
//
// The source formula is
//
//	frame_variance += (WANTED - (used_free_offset - bias) - WANTED) / WANTED
//
// where, despite the name, used_free_offset is defined as FreeSlots.size
// (the number of slots still unused after Render, not the number consumed).
// That collapses algebraically to
//
//	frame_variance -= (freeSlots - bias) / WANTED
//
// (design note 4 / DESIGN.md: the commented-out alternative in the original
// is not implemented). When few triangles were emitted, freeSlots is large,
// so the threshold drops and more splits happen next frame; when the budget
// is nearly exhausted, freeSlots is small, so the threshold rises and
// merges win out.
func updateFrameVariance(frameVariance float64, freeSlots, wantedTris int) float64 {
	frameVariance -= float64(freeSlots-feedbackControllerBias) / float64(wantedTris)
	if frameVariance < 0 {
		frameVariance = 0
	}
	return frameVariance
}
