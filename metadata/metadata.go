package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/extent"
	"github.com/arloliu/jseis/format"
	"github.com/arloliu/jseis/schema"
)

// Side-file names.
const (
	FilePropertiesFile = "FileProperties.xml"
	TraceFileFile      = "TraceFile.xml"
	TraceHeadersFile   = "TraceHeaders.xml"
	VirtualFoldersFile = "VirtualFolders.xml"
	NamePropertiesFile = "Name.properties"
	StatusFile         = "Status.properties"
)

// Extent family prefixes.
const (
	TraceFilePrefix    = "TraceFile"
	TraceHeadersPrefix = "TraceHeaders"
)

// RequiredFiles lists the side-files that must exist for a dataset to open.
var RequiredFiles = []string{
	FilePropertiesFile,
	TraceFileFile,
	TraceHeadersFile,
	VirtualFoldersFile,
	NamePropertiesFile,
	StatusFile,
}

const (
	rootName           = "JavaSeis Metadata"
	filePropsName      = "FileProperties"
	tracePropsName     = "TraceProperties"
	customPropsName    = "CustomProperties"
	extentManagerName  = "ExtentManager"
	virtualFoldersName = "VirtualFolders"

	javaSeisVersion = "2006.3"
	vfioVersion     = "2006.2"
)

var (
	defaultAxisLabels  = []string{"TIME", "TRACE", "FRAME", "VOLUME", "HYPERCUBE"}
	defaultAxisUnits   = []string{"milliseconds", "meters", "meters", "meters", "meters"}
	defaultAxisDomains = []string{"time", "space", "space", "space", "space"}
)

// FileProperties is the FileProperties parset.
type FileProperties struct {
	Comments          string
	JavaSeisVersion   string
	DataType          string
	TraceFormat       format.TraceFormat
	ByteOrder         endian.EndianEngine
	Mapped            bool
	AxisLabels        []string
	AxisUnits         []string
	AxisDomains       []string
	AxisLengths       []int64
	LogicalOrigins    []int64
	LogicalDeltas     []float64
	PhysicalOrigins   []float64
	PhysicalDeltas    []float64
	HeaderLengthBytes int
}

// NewFileProperties returns file properties with default axis annotations for
// the given axis lengths (samples, traces, frames, then any higher axes).
func NewFileProperties(axisLengths []int64, traceFormat format.TraceFormat, engine endian.EndianEngine) FileProperties {
	n := len(axisLengths)
	fp := FileProperties{
		Comments:        "www.javaseis.org - JavaSeis File Properties " + javaSeisVersion,
		JavaSeisVersion: javaSeisVersion,
		DataType:        "UNKNOWN",
		TraceFormat:     traceFormat,
		ByteOrder:       engine,
		Mapped:          true,
		AxisLabels:      make([]string, n),
		AxisUnits:       make([]string, n),
		AxisDomains:     make([]string, n),
		AxisLengths:     append([]int64(nil), axisLengths...),
		LogicalOrigins:  make([]int64, n),
		LogicalDeltas:   make([]float64, n),
		PhysicalOrigins: make([]float64, n),
		PhysicalDeltas:  make([]float64, n),
	}
	for i := range n {
		fp.AxisLabels[i] = axisDefault(defaultAxisLabels, i, "AXIS"+strconv.Itoa(i+1))
		fp.AxisUnits[i] = axisDefault(defaultAxisUnits, i, "unknown")
		fp.AxisDomains[i] = axisDefault(defaultAxisDomains, i, "unknown")
		fp.LogicalDeltas[i] = 1
		fp.PhysicalDeltas[i] = 1
	}

	return fp
}

func axisDefault(defaults []string, i int, fallback string) string {
	if i < len(defaults) {
		return defaults[i]
	}

	return fallback
}

// DataDimensions returns the number of axes.
func (fp *FileProperties) DataDimensions() int {
	return len(fp.AxisLengths)
}

// CustomProperties is the CustomProperties parset.
type CustomProperties struct {
	PrimaryKey   string
	SecondaryKey string
	PrimarySort  string
	Stacked      bool
	Synthetic    bool
	Cookie       int
	// HeaderSchemaHash is the schema fingerprint the header extents were written with.
	HeaderSchemaHash uint64
}

// NewCustomProperties returns the default custom properties.
func NewCustomProperties() CustomProperties {
	return CustomProperties{
		PrimaryKey:   "FRAME",
		SecondaryKey: "SEQNO",
		PrimarySort:  "inline",
		Stacked:      true,
		Cookie:       2003122,
	}
}

// VirtualFolders is the VirtualFolders parset.
type VirtualFolders struct {
	Filesystems []string
	Version     string
	Header      string
	Type        string
	Policy      string
}

// NewVirtualFolders returns a single read-write folder rooted at the dataset directory.
func NewVirtualFolders() VirtualFolders {
	return VirtualFolders{
		Filesystems: []string{".,READ_WRITE"},
		Version:     vfioVersion,
		Header:      "VFIO org.javaseis.io.VirtualFolder " + vfioVersion,
		Type:        "SS",
		Policy:      extent.PolicyRandom,
	}
}

// Set is the complete metadata of one dataset.
type Set struct {
	File         FileProperties
	Fields       []schema.FieldDescriptor
	Custom       CustomProperties
	TraceFile    extent.Descriptor
	TraceHeaders extent.Descriptor
	Folders      VirtualFolders
	Name         NameProperties
	Status       StatusProperties
}

// CheckRequired verifies that every required side-file exists in dir.
func CheckRequired(dir string) error {
	var missing []error
	for _, name := range RequiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				missing = append(missing, fmt.Errorf("%w: %s", errs.ErrMissingMetadata, name))
				continue
			}

			return fmt.Errorf("stat %s: %w", name, err)
		}
	}

	return errors.Join(missing...)
}

// Read loads the metadata of the dataset in dir.
//
// Returns:
//   - *Set: Parsed metadata
//   - error: ErrMissingMetadata for an absent side-file, ErrInvalidMetadata for
//     a side-file that cannot be parsed
func Read(dir string) (*Set, error) {
	if err := CheckRequired(dir); err != nil {
		return nil, err
	}

	s := &Set{}

	root, err := readParset(dir, FilePropertiesFile)
	if err != nil {
		return nil, err
	}
	if err := s.decodeFileProperties(root); err != nil {
		return nil, err
	}

	if s.TraceFile, err = readDescriptor(dir, TraceFileFile); err != nil {
		return nil, err
	}
	if s.TraceHeaders, err = readDescriptor(dir, TraceHeadersFile); err != nil {
		return nil, err
	}

	vf, err := readParset(dir, VirtualFoldersFile)
	if err != nil {
		return nil, err
	}
	if s.Folders, err = decodeVirtualFolders(vf); err != nil {
		return nil, err
	}

	if s.Name, err = readNameProperties(filepath.Join(dir, NamePropertiesFile)); err != nil {
		return nil, err
	}
	if s.Status, err = readStatusProperties(filepath.Join(dir, StatusFile)); err != nil {
		return nil, err
	}

	return s, nil
}

// Write stores every side-file of s in dir. Each file is replaced atomically.
func (s *Set) Write(dir string) error {
	docs := []struct {
		name string
		root *Parset
	}{
		{FilePropertiesFile, s.encodeFileProperties()},
		{TraceFileFile, encodeDescriptor(s.TraceFile)},
		{TraceHeadersFile, encodeDescriptor(s.TraceHeaders)},
		{VirtualFoldersFile, encodeVirtualFolders(s.Folders)},
	}
	for _, d := range docs {
		data, err := d.root.Marshal()
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.name, err)
		}
		if err := writeFileAtomic(filepath.Join(dir, d.name), data); err != nil {
			return err
		}
	}

	if err := s.Name.write(filepath.Join(dir, NamePropertiesFile)); err != nil {
		return err
	}

	return s.Status.write(filepath.Join(dir, StatusFile))
}

func readParset(dir, name string) (*Parset, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingMetadata, name)
		}

		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	p, err := UnmarshalParset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return p, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}

	return nil
}

func findSection(root *Parset, name string) (*Parset, error) {
	p, ok := root.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: parset %q not found", errs.ErrInvalidMetadata, name)
	}

	return p, nil
}

func (s *Set) encodeFileProperties() *Parset {
	root := NewParset(rootName)

	fp := root.AddChild(filePropsName)
	fp.SetString("Comments", s.File.Comments)
	fp.SetString("JavaSeisVersion", s.File.JavaSeisVersion)
	fp.SetString("DataType", s.File.DataType)
	fp.SetString("TraceFormat", s.File.TraceFormat.String())
	fp.SetString("ByteOrder", endian.Name(s.File.ByteOrder))
	fp.SetBool("Mapped", s.File.Mapped)
	fp.SetInt("DataDimensions", s.File.DataDimensions())
	fp.SetStrings("AxisLabels", s.File.AxisLabels)
	fp.SetStrings("AxisUnits", s.File.AxisUnits)
	fp.SetStrings("AxisDomains", s.File.AxisDomains)
	fp.SetLongs("AxisLengths", s.File.AxisLengths)
	fp.SetLongs("LogicalOrigins", s.File.LogicalOrigins)
	fp.SetDoubles("LogicalDeltas", s.File.LogicalDeltas)
	fp.SetDoubles("PhysicalOrigins", s.File.PhysicalOrigins)
	fp.SetDoubles("PhysicalDeltas", s.File.PhysicalDeltas)
	fp.SetInt("HeaderLengthBytes", s.File.HeaderLengthBytes)

	tp := root.AddChild(tracePropsName)
	for i, f := range s.Fields {
		e := tp.AddChild("entry_" + strconv.Itoa(i))
		e.SetString("label", f.Label)
		e.SetString("description", f.Description)
		e.SetString("format", f.Kind.String())
		e.SetInt("elementCount", f.Count)
		e.SetInt("byteOffset", f.Offset)
	}

	cp := root.AddChild(customPropsName)
	cp.SetBool("Synthetic", s.Custom.Synthetic)
	cp.SetString("SecondaryKey", s.Custom.SecondaryKey)
	cp.SetString("PrimaryKey", s.Custom.PrimaryKey)
	cp.SetString("PrimarySort", s.Custom.PrimarySort)
	cp.SetBool("Stacked", s.Custom.Stacked)
	cp.SetInt("cookie", s.Custom.Cookie)
	cp.SetString("HeaderSchemaHash", strconv.FormatUint(s.Custom.HeaderSchemaHash, 10))

	return root
}

func (s *Set) decodeFileProperties(root *Parset) error {
	fp, err := findSection(root, filePropsName)
	if err != nil {
		return fmt.Errorf("%s: %w", FilePropertiesFile, err)
	}

	var (
		f    FileProperties
		errv []error
		name string
		dims int
	)
	collect := func(err error) {
		if err != nil {
			errv = append(errv, err)
		}
	}

	f.Comments, err = fp.GetString("Comments")
	collect(err)
	f.JavaSeisVersion, err = fp.GetString("JavaSeisVersion")
	collect(err)
	f.DataType, err = fp.GetString("DataType")
	collect(err)
	if name, err = fp.GetString("TraceFormat"); err == nil {
		f.TraceFormat, err = format.ParseTraceFormat(name)
	}
	collect(err)
	if name, err = fp.GetString("ByteOrder"); err == nil {
		f.ByteOrder, err = endian.Parse(name)
	}
	collect(err)
	f.Mapped, err = fp.GetBool("Mapped")
	collect(err)
	dims, err = fp.GetInt("DataDimensions")
	collect(err)
	f.AxisLabels, err = fp.GetStrings("AxisLabels")
	collect(err)
	f.AxisUnits, err = fp.GetStrings("AxisUnits")
	collect(err)
	f.AxisDomains, err = fp.GetStrings("AxisDomains")
	collect(err)
	f.AxisLengths, err = fp.GetLongs("AxisLengths")
	collect(err)
	f.LogicalOrigins, err = fp.GetLongs("LogicalOrigins")
	collect(err)
	f.LogicalDeltas, err = fp.GetDoubles("LogicalDeltas")
	collect(err)
	f.PhysicalOrigins, err = fp.GetDoubles("PhysicalOrigins")
	collect(err)
	f.PhysicalDeltas, err = fp.GetDoubles("PhysicalDeltas")
	collect(err)
	f.HeaderLengthBytes, err = fp.GetInt("HeaderLengthBytes")
	collect(err)

	if len(errv) > 0 {
		return fmt.Errorf("%s: %w", FilePropertiesFile, errors.Join(errv...))
	}
	axes := []struct {
		name string
		n    int
	}{
		{"AxisLabels", len(f.AxisLabels)},
		{"AxisUnits", len(f.AxisUnits)},
		{"AxisDomains", len(f.AxisDomains)},
		{"AxisLengths", len(f.AxisLengths)},
		{"LogicalOrigins", len(f.LogicalOrigins)},
		{"LogicalDeltas", len(f.LogicalDeltas)},
		{"PhysicalOrigins", len(f.PhysicalOrigins)},
		{"PhysicalDeltas", len(f.PhysicalDeltas)},
	}
	for _, a := range axes {
		if a.n != dims {
			return fmt.Errorf("%w: %s declares %d dimensions but %d %s",
				errs.ErrInvalidMetadata, FilePropertiesFile, dims, a.n, a.name)
		}
	}
	s.File = f

	fields, err := decodeTraceProperties(root)
	if err != nil {
		return fmt.Errorf("%s: %w", FilePropertiesFile, err)
	}
	s.Fields = fields

	custom, err := decodeCustomProperties(root)
	if err != nil {
		return fmt.Errorf("%s: %w", FilePropertiesFile, err)
	}
	s.Custom = custom

	return nil
}

func decodeTraceProperties(root *Parset) ([]schema.FieldDescriptor, error) {
	tp, err := findSection(root, tracePropsName)
	if err != nil {
		return nil, err
	}

	fields := make([]schema.FieldDescriptor, 0, len(tp.Parsets))
	for _, e := range tp.Parsets {
		var f schema.FieldDescriptor
		var kind string

		if f.Label, err = e.GetString("label"); err != nil {
			return nil, err
		}
		if f.Description, err = e.GetString("description"); err != nil {
			return nil, err
		}
		if kind, err = e.GetString("format"); err != nil {
			return nil, err
		}
		if f.Kind, err = format.ParseFieldKind(kind); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
		}
		if f.Count, err = e.GetInt("elementCount"); err != nil {
			return nil, err
		}
		if f.Offset, err = e.GetInt("byteOffset"); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	return fields, nil
}

func decodeCustomProperties(root *Parset) (CustomProperties, error) {
	cp, err := findSection(root, customPropsName)
	if err != nil {
		return CustomProperties{}, err
	}

	// Absent values keep their defaults. A zero HeaderSchemaHash means the
	// writer recorded no fingerprint.
	c := NewCustomProperties()
	if v, err := cp.GetString("PrimaryKey"); err == nil {
		c.PrimaryKey = v
	}
	if v, err := cp.GetString("SecondaryKey"); err == nil {
		c.SecondaryKey = v
	}
	if v, err := cp.GetString("PrimarySort"); err == nil {
		c.PrimarySort = v
	}
	if v, err := cp.GetBool("Stacked"); err == nil {
		c.Stacked = v
	}
	if v, err := cp.GetBool("Synthetic"); err == nil {
		c.Synthetic = v
	}
	if v, err := cp.GetInt("cookie"); err == nil {
		c.Cookie = v
	}
	if _, err := cp.GetString("HeaderSchemaHash"); err == nil {
		if c.HeaderSchemaHash, err = cp.GetUint64("HeaderSchemaHash"); err != nil {
			return CustomProperties{}, err
		}
	}

	return c, nil
}

func encodeDescriptor(d extent.Descriptor) *Parset {
	p := NewParset(extentManagerName)
	p.SetString("VFIO_VERSION", d.Version)
	p.SetLong("VFIO_EXTSIZE", d.ExtentSize)
	p.SetInt("VFIO_MAXFILE", d.MaxFile)
	p.SetLong("VFIO_MAXPOS", d.MaxPos)
	p.SetString("VFIO_EXTNAME", d.Name)
	p.SetString("VFIO_POLICY", d.Policy)

	return p
}

func readDescriptor(dir, name string) (extent.Descriptor, error) {
	root, err := readParset(dir, name)
	if err != nil {
		return extent.Descriptor{}, err
	}
	p, err := findSection(root, extentManagerName)
	if err != nil {
		return extent.Descriptor{}, fmt.Errorf("%s: %w", name, err)
	}

	var d extent.Descriptor
	errv := make([]error, 6)
	d.Version, errv[0] = p.GetString("VFIO_VERSION")
	d.ExtentSize, errv[1] = p.GetLong("VFIO_EXTSIZE")
	d.MaxFile, errv[2] = p.GetInt("VFIO_MAXFILE")
	d.MaxPos, errv[3] = p.GetLong("VFIO_MAXPOS")
	d.Name, errv[4] = p.GetString("VFIO_EXTNAME")
	d.Policy, errv[5] = p.GetString("VFIO_POLICY")
	if err := errors.Join(errv...); err != nil {
		return extent.Descriptor{}, fmt.Errorf("%s: %w", name, err)
	}

	return d, nil
}

func encodeVirtualFolders(vf VirtualFolders) *Parset {
	p := NewParset(virtualFoldersName)
	p.SetInt("NDIR", len(vf.Filesystems))
	for i, fs := range vf.Filesystems {
		p.SetString("FILESYSTEM-"+strconv.Itoa(i), fs)
	}
	p.SetString("Version", vf.Version)
	p.SetString("Header", vf.Header)
	p.SetString("Type", vf.Type)
	p.SetString("POLICY_ID", vf.Policy)

	return p
}

// maxVirtualFolders bounds the NDIR value accepted from VirtualFolders.xml.
const maxVirtualFolders = 1024

func decodeVirtualFolders(root *Parset) (VirtualFolders, error) {
	p, err := findSection(root, virtualFoldersName)
	if err != nil {
		return VirtualFolders{}, fmt.Errorf("%s: %w", VirtualFoldersFile, err)
	}

	ndir, err := p.GetInt("NDIR")
	if err != nil {
		return VirtualFolders{}, fmt.Errorf("%s: %w", VirtualFoldersFile, err)
	}
	if ndir < 0 || ndir > maxVirtualFolders {
		return VirtualFolders{}, fmt.Errorf("%w: %s NDIR %d outside [0, %d]",
			errs.ErrInvalidMetadata, VirtualFoldersFile, ndir, maxVirtualFolders)
	}

	var vf VirtualFolders
	errv := make([]error, 0, ndir+4)
	for i := range ndir {
		fs, err := p.GetString("FILESYSTEM-" + strconv.Itoa(i))
		errv = append(errv, err)
		vf.Filesystems = append(vf.Filesystems, fs)
	}
	var e1, e2, e3, e4 error
	vf.Version, e1 = p.GetString("Version")
	vf.Header, e2 = p.GetString("Header")
	vf.Type, e3 = p.GetString("Type")
	vf.Policy, e4 = p.GetString("POLICY_ID")
	errv = append(errv, e1, e2, e3, e4)

	if err := errors.Join(errv...); err != nil {
		return VirtualFolders{}, fmt.Errorf("%s: %w", VirtualFoldersFile, err)
	}

	return vf, nil
}
