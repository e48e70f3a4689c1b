// Package dataset stores seismic traces and their headers in extent files.
//
// A dataset directory holds two record families, TraceFile<N> for encoded
// trace samples and TraceHeaders<N> for header records, next to the metadata
// side-files and the TraceMap fold side-file. Trace i of the dataset is record
// i of both families.
//
// # Basic Usage
//
//	ds, err := dataset.Create(dir, dataset.Geometry{
//	    SampleCount:    1500,
//	    TracesPerFrame: 240,
//	    FrameCount:     100,
//	    VolumeCount:    1,
//	}, dataset.WithBigEndian())
//	if err != nil {
//	    return err
//	}
//	defer ds.Close()
//
//	h := ds.NewHeader()
//	_ = h.SetInt("TRC_TYPE", 1)
//	_ = ds.WriteHeader(0, h)
//	_ = ds.WriteTrace(0, samples)
//	_ = ds.Save()
//
// # Header schema changes
//
// AddField, DeleteField and ReplaceField rewrite every stored header record
// into the new layout. The new records are written to separate files first and
// renamed over the old extents only when all of them succeeded.
package dataset
