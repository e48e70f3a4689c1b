package dataset

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/extent"
	"github.com/arloliu/jseis/internal/pool"
	"github.com/arloliu/jseis/metadata"
	"github.com/arloliu/jseis/schema"
	"github.com/dustin/go-humanize"
)

const (
	// migratePrefix names the replacement header extents while they are written.
	migratePrefix = "migrate." + metadata.TraceHeadersPrefix
	// backupPrefix names the previous header extents while the new ones are installed.
	backupPrefix = "backup." + metadata.TraceHeadersPrefix
)

// rename is os.Rename; tests replace it to fail a chosen extent.
var rename = os.Rename

// GetField returns the descriptor of label.
func (d *Dataset) GetField(label string) (schema.FieldDescriptor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.schema.Get(label)
}

// AddField adds a header field. Stored headers are rewritten so the new field
// reads as zero and every other field keeps its value.
func (d *Dataset) AddField(f schema.FieldDescriptor) error {
	return d.mutate(func(s *schema.HeaderSchema) error { return s.Add(f) })
}

// DeleteField removes a header field and rewrites the stored headers.
//
// Returns:
//   - error: ErrUnknownLabel, ErrEmptySchema when label is the last field,
//     ErrReadOnly, or I/O errors
func (d *Dataset) DeleteField(label string) error {
	return d.mutate(func(s *schema.HeaderSchema) error { return s.Delete(label) })
}

// ReplaceField swaps the descriptor of f.Label for f and rewrites the stored
// headers, converting the surviving elements to the new kind.
func (d *Dataset) ReplaceField(f schema.FieldDescriptor) error {
	return d.mutate(func(s *schema.HeaderSchema) error { return s.Replace(f) })
}

// mutate applies fn to a copy of the schema, migrates the header extents to
// the resulting layout and only then makes it current. Any failure leaves the
// schema, the layout and the header files as they were.
func (d *Dataset) mutate(fn func(*schema.HeaderSchema) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritable(); err != nil {
		return err
	}

	next := d.schema.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if next.Len() == 0 {
		return errs.ErrEmptySchema
	}

	start := time.Now()
	layout := next.Compile(d.engine)
	headers, err := d.migrateHeaders(layout)
	if err != nil {
		return err
	}

	prevSize := d.layout.Size()
	d.schema, d.layout, d.headers = next, layout, headers
	d.meta.TraceHeaders = extent.NewDescriptor(metadata.TraceHeadersPrefix,
		headers.Capacity(), layout.Size(), headers.ExtentCount())
	d.syncSchemaMetadata()

	if err := d.save(); err != nil {
		// The extents already hold the new layout; keep it and report the failure.
		d.logger.Error("header migration saved partially", "dir", d.dir, "error", err)
		return err
	}

	d.logger.Info("header schema migrated",
		"dir", d.dir,
		"fields", next.Len(),
		"header_bytes", layout.Size(),
		"previous_header_bytes", prevSize,
		"rewritten", humanize.IBytes(uint64(d.geometry.TraceCount())*uint64(layout.Size())),
		"elapsed", time.Since(start),
	)
	return nil
}

// migrateHeaders rewrites every header record into new extents using layout
// and swaps them in for the current header extents. On success the previous
// header family is closed and the family over the new files is returned.
//
// The swap moves the current extents to backup names before installing the
// new ones. Any failure moves the backups back and rebinds d.headers to them,
// so the files always match d.layout when an error is returned.
func (d *Dataset) migrateHeaders(layout *schema.Layout) (*extent.Family, error) {
	total := d.geometry.TraceCount()
	capacity := d.headers.Capacity()

	tmpPaths, err := extent.CreateExtents(d.dir, migratePrefix, capacity, layout.Size(), total)
	if err != nil {
		return nil, err
	}
	tmp, err := extent.NewFamily(tmpPaths, capacity, layout.Size(), false)
	if err != nil {
		_ = extent.Remove(tmpPaths)
		return nil, err
	}

	if err := d.copyHeaders(tmp, layout, total); err != nil {
		return nil, errors.Join(err, tmp.Close(), extent.Remove(tmpPaths))
	}
	if err := errors.Join(tmp.Sync(), tmp.Close()); err != nil {
		return nil, errors.Join(err, extent.Remove(tmpPaths))
	}

	oldPaths := d.headers.Paths()
	if err := d.headers.Close(); err != nil {
		return nil, errors.Join(err, d.rebindHeaders(oldPaths, capacity), extent.Remove(tmpPaths))
	}

	backups := make([]string, len(oldPaths))
	for n := range oldPaths {
		backups[n] = extent.Path(d.dir, backupPrefix, n)
	}
	finalPaths := make([]string, len(tmpPaths))
	for n := range tmpPaths {
		finalPaths[n] = extent.Path(d.dir, metadata.TraceHeadersPrefix, n)
	}

	if moved, err := moveAll(oldPaths, backups); err != nil {
		_, rerr := moveAll(backups[:moved], oldPaths[:moved])
		return nil, errors.Join(fmt.Errorf("back up header extents: %w", err), rerr,
			d.rebindHeaders(oldPaths, capacity), extent.Remove(tmpPaths))
	}

	if installed, err := moveAll(tmpPaths, finalPaths); err != nil {
		rerr := extent.Remove(finalPaths[:installed])
		if rerr == nil {
			_, rerr = moveAll(backups, oldPaths)
		}

		return nil, errors.Join(fmt.Errorf("install migrated header extents: %w", err), rerr,
			d.rebindHeaders(oldPaths, capacity), extent.Remove(tmpPaths))
	}

	if err := extent.Remove(backups); err != nil {
		d.logger.Warn("header extent backups left behind", "dir", d.dir, "error", err)
	}

	return extent.NewFamily(finalPaths, capacity, layout.Size(), false)
}

// rebindHeaders reopens the header family over paths with the current layout.
func (d *Dataset) rebindHeaders(paths []string, capacity int64) error {
	f, err := extent.NewFamily(paths, capacity, d.layout.Size(), false)
	if err != nil {
		return err
	}
	d.headers = f

	return nil
}

// moveAll renames src[n] to dst[n] in order and returns how many were moved.
func moveAll(src, dst []string) (int, error) {
	for n := range src {
		if err := rename(src[n], dst[n]); err != nil {
			return n, err
		}
	}

	return len(src), nil
}

func (d *Dataset) copyHeaders(dst *extent.Family, layout *schema.Layout, total int64) error {
	buf, release := pool.GetRecord(d.layout.Size())
	defer release()

	next := layout.NewHeader()
	for i := range total {
		if err := d.headers.ReadRecord(i, buf); err != nil {
			return fmt.Errorf("migrate header %d: %w", i, err)
		}
		prev, err := d.layout.DecodeHeader(buf)
		if err != nil {
			return err
		}

		clear(next.Bytes())
		next.CopyCommon(prev)
		if err := dst.WriteRecord(i, next.Bytes()); err != nil {
			return fmt.Errorf("migrate header %d: %w", i, err)
		}
	}

	return nil
}
