// Package variant picks representative expression frames and enumerates the
// optional layer combinations of a portrait.
package variant

// Frame preference orders. Earlier tags win.
var (
	EyeFramePreference   = []string{"n1", "n0", "f0", "f1", "b0", "b1", "n2"}
	MouthFramePreference = []string{"1", "0", "2"}
)

// Pick returns the first tag of preference present in frames, or frames[0]
// when none is. It returns "" for an empty list.
func Pick(frames, preference []string) string {
	if len(frames) == 0 {
		return ""
	}
	for _, want := range preference {
		for _, f := range frames {
			if f == want {
				return f
			}
		}
	}
	return frames[0]
}

// BestEyeFrame picks the representative eye frame.
func BestEyeFrame(frames []string) string { return Pick(frames, EyeFramePreference) }

// BestMouthFrame picks the representative mouth frame.
func BestMouthFrame(frames []string) string { return Pick(frames, MouthFramePreference) }
