// Package fold records how many trace slots of every frame hold live traces.
//
// The map is a dense array with one entry per (frame, volume) pair stored in
// volume-major, frame-minor order: entry volume*frameCount+frame. Every entry
// stays within [0, tracesPerFrame].
//
// On disk the map is the TraceMap side-file, a flat array of signed 32-bit
// integers in the dataset byte order.
package fold

import (
	"fmt"
	"os"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/edsrzf/mmap-go"
)

// FileName is the name of the fold side-file inside a dataset directory.
const FileName = "TraceMap"

// Map is the per-frame fold of a dataset.
type Map struct {
	frames         int
	volumes        int
	tracesPerFrame int
	entries        []int32
}

// NewFull returns a map with every frame at full fold.
//
// Returns:
//   - *Map: Fold map with frames*volumes entries equal to tracesPerFrame
//   - error: ErrInvalidGeometry if any dimension is not positive
func NewFull(frames, volumes, tracesPerFrame int) (*Map, error) {
	if err := checkDims(frames, volumes, tracesPerFrame); err != nil {
		return nil, err
	}

	entries := make([]int32, frames*volumes)
	for i := range entries {
		entries[i] = int32(tracesPerFrame)
	}

	return &Map{frames: frames, volumes: volumes, tracesPerFrame: tracesPerFrame, entries: entries}, nil
}

func checkDims(frames, volumes, tracesPerFrame int) error {
	if frames <= 0 || volumes <= 0 || tracesPerFrame <= 0 {
		return fmt.Errorf("%w: fold map %d frames x %d volumes, %d traces per frame",
			errs.ErrInvalidGeometry, frames, volumes, tracesPerFrame)
	}

	return nil
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Frames returns the number of frames per volume.
func (m *Map) Frames() int { return m.frames }

// Volumes returns the number of volumes.
func (m *Map) Volumes() int { return m.volumes }

// TracesPerFrame returns the fold upper bound.
func (m *Map) TracesPerFrame() int { return m.tracesPerFrame }

func (m *Map) index(frame, volume int) (int, error) {
	if frame < 0 || frame >= m.frames || volume < 0 || volume >= m.volumes {
		return 0, fmt.Errorf("%w: fold (frame %d, volume %d) outside %d x %d",
			errs.ErrIndexOutOfRange, frame, volume, m.frames, m.volumes)
	}

	return volume*m.frames + frame, nil
}

// Get returns the fold of frame in volume.
func (m *Map) Get(frame, volume int) (int, error) {
	i, err := m.index(frame, volume)
	if err != nil {
		return 0, err
	}

	return int(m.entries[i]), nil
}

// Set updates the fold of frame in volume.
//
// Returns:
//   - error: ErrIndexOutOfRange for a bad position, ErrFoldOutOfRange when v is
//     negative or larger than the traces per frame. The map is unchanged on error.
func (m *Map) Set(frame, volume, v int) error {
	i, err := m.index(frame, volume)
	if err != nil {
		return err
	}
	if v < 0 || v > m.tracesPerFrame {
		return fmt.Errorf("%w: fold %d not in [0, %d]", errs.ErrFoldOutOfRange, v, m.tracesPerFrame)
	}
	m.entries[i] = int32(v)

	return nil
}

// At returns the fold of the global frame index i (volume*frames + frame).
func (m *Map) At(i int) (int, error) {
	if i < 0 || i >= len(m.entries) {
		return 0, fmt.Errorf("%w: frame %d, map has %d", errs.ErrIndexOutOfRange, i, len(m.entries))
	}

	return int(m.entries[i]), nil
}

// LiveFrames returns the number of frames with a nonzero fold.
func (m *Map) LiveFrames() int {
	n := 0
	for _, v := range m.entries {
		if v > 0 {
			n++
		}
	}

	return n
}

// Bytes serializes the map as a flat int32 array.
func (m *Map) Bytes(engine endian.EndianEngine) []byte {
	buf := make([]byte, 0, 4*len(m.entries))
	for _, v := range m.entries {
		buf = engine.AppendUint32(buf, uint32(v))
	}

	return buf
}

// Save writes the whole map to path.
func (m *Map) Save(path string, engine endian.EndianEngine) error {
	if err := os.WriteFile(path, m.Bytes(engine), 0o644); err != nil {
		return fmt.Errorf("save fold map: %w", err)
	}

	return nil
}

// Load reads a fold side-file written by Save.
//
// The file is mapped read-only and copied, so the returned map does not keep
// the file open.
//
// Returns:
//   - *Map: Loaded fold map
//   - error: ErrMissingMetadata if path does not exist, ErrInvalidMetadata for a
//     wrong file length or an entry outside [0, tracesPerFrame]
func Load(path string, frames, volumes, tracesPerFrame int, engine endian.EndianEngine) (*Map, error) {
	if err := checkDims(frames, volumes, tracesPerFrame); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingMetadata, path)
		}

		return nil, fmt.Errorf("open fold map: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat fold map: %w", err)
	}
	want := int64(4 * frames * volumes)
	if info.Size() != want {
		return nil, fmt.Errorf("%w: fold map %s has %d bytes, expected %d",
			errs.ErrInvalidMetadata, path, info.Size(), want)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("map fold map: %w", err)
	}
	defer func() { _ = data.Unmap() }()

	m := &Map{
		frames:         frames,
		volumes:        volumes,
		tracesPerFrame: tracesPerFrame,
		entries:        make([]int32, frames*volumes),
	}
	for i := range m.entries {
		v := int32(engine.Uint32(data[4*i:]))
		if v < 0 || int(v) > tracesPerFrame {
			return nil, fmt.Errorf("%w: fold entry %d is %d, bound is %d",
				errs.ErrInvalidMetadata, i, v, tracesPerFrame)
		}
		m.entries[i] = v
	}

	return m, nil
}
