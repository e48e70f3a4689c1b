package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/jseis/errs"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Geometry is the scalar shape of a dataset.
//
// Traces are numbered globally in volume-major order: trace t of frame f in
// volume v has index (v*FrameCount+f)*TracesPerFrame + t.
type Geometry struct {
	SampleCount    int `validate:"min=1"`
	TracesPerFrame int `validate:"min=1"`
	FrameCount     int `validate:"min=1"`
	VolumeCount    int `validate:"min=1"`
}

// Validate reports every dimension that is not positive.
//
// Returns:
//   - error: ErrInvalidGeometry naming the offending dimensions, or nil
func (g Geometry) Validate() error {
	err := validate.Struct(g)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errs.ErrInvalidGeometry, err)
	}

	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fmt.Sprintf("%s=%v", fe.Field(), fe.Value())
	}

	return fmt.Errorf("%w: %s must be at least 1", errs.ErrInvalidGeometry, strings.Join(parts, ", "))
}

// TraceCount returns the total number of trace slots.
func (g Geometry) TraceCount() int64 {
	return int64(g.FrameCount) * int64(g.TracesPerFrame) * int64(g.VolumeCount)
}

// FrameTotal returns the number of frames across all volumes.
func (g Geometry) FrameTotal() int {
	return g.FrameCount * g.VolumeCount
}

// Is2D reports whether the dataset is a single frame.
func (g Geometry) Is2D() bool {
	return g.FrameCount == 1 && g.VolumeCount == 1
}

// AxisLengths returns the axis lengths persisted in metadata: samples, traces
// and frames, plus the volume axis when there is more than one volume.
func (g Geometry) AxisLengths() []int64 {
	axes := []int64{int64(g.SampleCount), int64(g.TracesPerFrame), int64(g.FrameCount)}
	if g.VolumeCount > 1 {
		axes = append(axes, int64(g.VolumeCount))
	}

	return axes
}

// GeometryFromAxes derives the geometry from persisted axis lengths. A dataset
// with two axes has one frame; every axis past the third multiplies into the
// volume count.
//
// Returns:
//   - Geometry: Derived geometry
//   - error: ErrInvalidMetadata for fewer than two axes, or Validate errors
func GeometryFromAxes(axes []int64) (Geometry, error) {
	if len(axes) < 2 {
		return Geometry{}, fmt.Errorf("%w: need at least 2 axes, got %d", errs.ErrInvalidMetadata, len(axes))
	}

	g := Geometry{
		SampleCount:    int(axes[0]),
		TracesPerFrame: int(axes[1]),
		FrameCount:     1,
		VolumeCount:    1,
	}
	if len(axes) > 2 {
		g.FrameCount = int(axes[2])
	}
	for _, n := range axes[min(3, len(axes)):] {
		g.VolumeCount *= int(n)
	}

	return g, g.Validate()
}

// FrameSpan returns the first global trace index and the trace count of the
// global frame index (volume*FrameCount + frame).
//
// Returns:
//   - int64: First trace index of the frame
//   - int: Number of traces in the frame
//   - error: ErrIndexOutOfRange if frame is outside [0, FrameTotal())
func (g Geometry) FrameSpan(frame int) (int64, int, error) {
	if frame < 0 || frame >= g.FrameTotal() {
		return 0, 0, fmt.Errorf("%w: frame %d, dataset has %d", errs.ErrIndexOutOfRange, frame, g.FrameTotal())
	}
	if g.Is2D() {
		return 0, int(g.TraceCount()), nil
	}

	return int64(frame) * int64(g.TracesPerFrame), g.TracesPerFrame, nil
}

// FrameIndex combines a frame and a volume into a global frame index.
func (g Geometry) FrameIndex(frame, volume int) (int, error) {
	if frame < 0 || frame >= g.FrameCount || volume < 0 || volume >= g.VolumeCount {
		return 0, fmt.Errorf("%w: frame %d of volume %d outside %d x %d",
			errs.ErrIndexOutOfRange, frame, volume, g.FrameCount, g.VolumeCount)
	}

	return volume*g.FrameCount + frame, nil
}
