package photo

import "fmt"

// Adjustment channel defaults. Brightness, contrast, and saturation are
// percentages where 100 is neutral; sepia and grayscale where 0 is neutral.
const (
	DefaultLevel = 100
	DefaultTone  = 0
)

// FilterAdjustment is a non-destructive set of visual adjustment channels
// attached to a photo. Channels are independent and individually reversible;
// the zero-effect value differs per channel (see Default).
type FilterAdjustment struct {
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`
	Sepia      int `json:"sepia"`
	Grayscale  int `json:"grayscale"`
}

// Default returns the identity adjustment. A photo with no stored
// adjustment is semantically identical to one carrying these values.
func Default() FilterAdjustment {
	return FilterAdjustment{
		Brightness: DefaultLevel,
		Contrast:   DefaultLevel,
		Saturation: DefaultLevel,
		Sepia:      DefaultTone,
		Grayscale:  DefaultTone,
	}
}

// IsDefault reports whether the adjustment has no visible effect.
func (f FilterAdjustment) IsDefault() bool {
	return f == Default()
}

// Descriptor composes the adjustment into the filter string consumed by the
// rendering surface, e.g.
// "brightness(100%) contrast(100%) saturate(100%) sepia(0%) grayscale(0%)".
func (f FilterAdjustment) Descriptor() string {
	return fmt.Sprintf("brightness(%d%%) contrast(%d%%) saturate(%d%%) sepia(%d%%) grayscale(%d%%)",
		f.Brightness, f.Contrast, f.Saturation, f.Sepia, f.Grayscale)
}

// DescriptorOf returns the descriptor for a possibly-nil adjustment.
// nil renders as "none" so the surface can skip the filter entirely.
func DescriptorOf(f *FilterAdjustment) string {
	if f == nil {
		return "none"
	}
	return f.Descriptor()
}
