package roam

// visibilityForwardBias is the dot-product threshold below which a patch is
// considered behind the camera. A true frustum test would also bound the
// horizontal/vertical FOV; this heuristic only checks "in front of or beside
// the camera", which is deliberately an overestimate (spec section 9, design
// note 7: "acceptable because invisible patches still do no per-frame work
// beyond visibility check").
const visibilityForwardBias = -0.25

// patchVisible implements the patch-center-vs-camera heuristic (spec
// section 9 note 7 / Visibility component in section 2): a patch is visible
// if its center lies roughly in front of the camera, or the camera sits at
// the patch center. A zero Forward makes every patch visible.
func patchVisible(center Vec3, cam Camera) bool {
	toPatch := center.Sub(cam.Position)
	if toPatch.Dot(toPatch) < 1e-6 {
		return true
	}
	forward := cam.Forward.Normalize()
	if forward == (Vec3{}) {
		return true
	}
	dot := toPatch.Normalize().Dot(forward)
	return dot > visibilityForwardBias
}
