package dataset

import (
	"fmt"

	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/internal/pool"
	"github.com/arloliu/jseis/schema"
)

func (d *Dataset) checkIndex(index int64) error {
	if total := d.geometry.TraceCount(); index >= total {
		return fmt.Errorf("%w: trace %d, dataset has %d", errs.ErrIndexOutOfRange, index, total)
	}

	return nil
}

// ReadHeader returns the header record of trace index.
//
// Returns:
//   - *schema.Header: Decoded header bound to the current layout
//   - error: ErrIndexOutOfRange past the last trace, ErrAddressing for a
//     negative index, or extent errors
func (d *Dataset) ReadHeader(index int64) (*schema.Header, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if err := d.checkIndex(index); err != nil {
		return nil, err
	}

	return d.readHeader(index)
}

func (d *Dataset) readHeader(index int64) (*schema.Header, error) {
	buf, release := pool.GetRecord(d.layout.Size())
	defer release()

	if err := d.headers.ReadRecord(index, buf); err != nil {
		return nil, err
	}

	return d.layout.DecodeHeader(buf)
}

// WriteHeader stores h as the header record of trace index.
//
// Returns:
//   - error: ErrSchemaMismatch when h is nil or was built for another layout,
//     ErrReadOnly, ErrIndexOutOfRange, or extent errors
func (d *Dataset) WriteHeader(index int64, h *schema.Header) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkWritable(); err != nil {
		return err
	}
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("%w: nil header", errs.ErrSchemaMismatch)
	}
	if h.Layout() != d.layout {
		return fmt.Errorf("%w: header built for a previous layout", errs.ErrSchemaMismatch)
	}

	return d.headers.WriteRecord(index, h.Bytes())
}

// ReadTrace decodes the samples of trace index.
func (d *Dataset) ReadTrace(index int64) ([]float32, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if err := d.checkIndex(index); err != nil {
		return nil, err
	}

	return d.readTrace(index)
}

func (d *Dataset) readTrace(index int64) ([]float32, error) {
	buf, release := pool.GetRecord(d.codec.RecordSize())
	defer release()

	if err := d.traces.ReadRecord(index, buf); err != nil {
		return nil, err
	}

	return d.codec.Decode(buf, nil)
}

// WriteTrace encodes samples and stores them as trace index.
//
// Returns:
//   - error: ErrShapeMismatch for a wrong sample count, ErrReadOnly,
//     ErrIndexOutOfRange, or extent errors
func (d *Dataset) WriteTrace(index int64, samples []float32) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkWritable(); err != nil {
		return err
	}
	if err := d.checkIndex(index); err != nil {
		return err
	}

	buf, release := pool.GetRecord(d.codec.RecordSize())
	defer release()

	if err := d.codec.EncodeInto(buf, samples); err != nil {
		return err
	}
	if err := d.traces.WriteRecord(index, buf); err != nil {
		return err
	}
	d.hasTraces.Store(true)

	return nil
}

// ReadFrame reads every header and trace of the global frame index
// (volume*FrameCount + frame). A 2-D dataset has a single frame holding all
// traces.
func (d *Dataset) ReadFrame(frame int) ([]Trace, error) {
	return d.readFrame(frame, false)
}

// ReadLiveFrame is ReadFrame without the traces whose liveness field is 0.
//
// Returns:
//   - []Trace: Live traces in index order
//   - error: ErrUnknownLabel when the liveness field is not in the schema, or
//     ReadFrame errors
func (d *Dataset) ReadLiveFrame(frame int) ([]Trace, error) {
	return d.readFrame(frame, true)
}

// ReadVolumeFrame reads frame of volume, optionally dropping dead traces.
func (d *Dataset) ReadVolumeFrame(frame, volume int, liveOnly bool) ([]Trace, error) {
	global, err := d.geometry.FrameIndex(frame, volume)
	if err != nil {
		return nil, err
	}

	return d.readFrame(global, liveOnly)
}

func (d *Dataset) readFrame(frame int, liveOnly bool) ([]Trace, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if liveOnly && !d.schema.Has(d.liveness) {
		return nil, fmt.Errorf("%w: liveness field %q", errs.ErrUnknownLabel, d.liveness)
	}

	start, count, err := d.geometry.FrameSpan(frame)
	if err != nil {
		return nil, err
	}

	out := make([]Trace, 0, count)
	for i := start; i < start+int64(count); i++ {
		h, err := d.readHeader(i)
		if err != nil {
			return nil, err
		}
		if liveOnly {
			live, err := h.Int(d.liveness)
			if err != nil {
				return nil, err
			}
			if live == 0 {
				continue
			}
		}

		samples, err := d.readTrace(i)
		if err != nil {
			return nil, err
		}
		out = append(out, Trace{Index: i, Header: h, Samples: samples})
	}

	return out, nil
}

// Fold returns the number of live traces recorded for frame of volume.
func (d *Dataset) Fold(frame, volume int) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkOpen(); err != nil {
		return 0, err
	}

	return d.fold.Get(frame, volume)
}

// SetFold records the number of live traces of frame in volume. The change is
// persisted by Save.
//
// Returns:
//   - error: ErrFoldOutOfRange when v is outside [0, TracesPerFrame],
//     ErrIndexOutOfRange, or ErrReadOnly
func (d *Dataset) SetFold(frame, volume, v int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritable(); err != nil {
		return err
	}

	return d.fold.Set(frame, volume, v)
}

// LiveFrames returns the number of frames with a nonzero fold.
func (d *Dataset) LiveFrames() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.fold.LiveFrames()
}
