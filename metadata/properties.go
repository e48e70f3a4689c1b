package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arloliu/jseis/errs"
	"github.com/google/uuid"
	"github.com/magiconair/properties"
)

// NameProperties is the content of Name.properties.
type NameProperties struct {
	DescriptiveName string
	DatasetID       uuid.UUID
}

// NewNameProperties returns name properties with a fresh random dataset id.
func NewNameProperties(descriptiveName string) NameProperties {
	return NameProperties{DescriptiveName: descriptiveName, DatasetID: uuid.New()}
}

// StatusProperties is the content of Status.properties.
type StatusProperties struct {
	HasTraces    bool
	LastModified time.Time
}

func (n NameProperties) write(path string) error {
	p := properties.NewProperties()
	p.DisableExpansion = true
	if _, _, err := p.Set("DescriptiveName", n.DescriptiveName); err != nil {
		return err
	}
	if _, _, err := p.Set("DatasetID", n.DatasetID.String()); err != nil {
		return err
	}

	return writeProperties(path, "JavaSeis Name Properties", p)
}

func (s StatusProperties) write(path string) error {
	p := properties.NewProperties()
	p.DisableExpansion = true
	if _, _, err := p.Set("HasTraces", fmt.Sprint(s.HasTraces)); err != nil {
		return err
	}
	if _, _, err := p.Set("LastModified", s.LastModified.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return writeProperties(path, "JavaSeis Status Properties", p)
}

func writeProperties(path, title string, p *properties.Properties) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#%s\n", title)
	if _, err := p.Write(&buf, properties.UTF8); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	return writeFileAtomic(path, buf.Bytes())
}

func loadProperties(path string) (*properties.Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingMetadata, filepath.Base(path))
		}

		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrInvalidMetadata, filepath.Base(path), err)
	}

	return p, nil
}

func readNameProperties(path string) (NameProperties, error) {
	p, err := loadProperties(path)
	if err != nil {
		return NameProperties{}, err
	}

	n := NameProperties{DescriptiveName: p.GetString("DescriptiveName", "")}
	// Datasets written by other tools may carry no id.
	if raw, ok := p.Get("DatasetID"); ok {
		if n.DatasetID, err = uuid.Parse(raw); err != nil {
			return NameProperties{}, fmt.Errorf("%w: %s: DatasetID: %v", errs.ErrInvalidMetadata, NamePropertiesFile, err)
		}
	}

	return n, nil
}

func readStatusProperties(path string) (StatusProperties, error) {
	p, err := loadProperties(path)
	if err != nil {
		return StatusProperties{}, err
	}

	s := StatusProperties{HasTraces: p.GetBool("HasTraces", false)}
	if raw, ok := p.Get("LastModified"); ok {
		if s.LastModified, err = time.Parse(time.RFC3339, raw); err != nil {
			return StatusProperties{}, fmt.Errorf("%w: %s: LastModified: %v", errs.ErrInvalidMetadata, StatusFile, err)
		}
	}

	return s, nil
}
