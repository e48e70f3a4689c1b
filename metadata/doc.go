// Package metadata reads and writes the side-files that describe a dataset.
//
// A dataset directory carries these artifacts next to its extent files:
//
//	FileProperties.xml   geometry, trace format, byte order and the header schema
//	TraceFile.xml        extent descriptor of the trace family
//	TraceHeaders.xml     extent descriptor of the header family
//	VirtualFolders.xml   folder layout of the extents
//	Name.properties      descriptive name and dataset id
//	Status.properties    HasTraces flag and modification time
//
// The XML files are parameter sets (parset elements holding typed par
// elements). The properties files use the Java properties syntax.
//
// Reading never repairs anything: a missing artifact is reported as
// errs.ErrMissingMetadata and an unreadable one as errs.ErrInvalidMetadata.
package metadata
