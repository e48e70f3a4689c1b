package metadata

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/arloliu/jseis/errs"
)

// Parameter type names used in the type attribute of a par element.
const (
	TypeString  = "string"
	TypeInt     = "int"
	TypeLong    = "long"
	TypeFloat   = "float"
	TypeDouble  = "double"
	TypeBoolean = "boolean"
)

// Parset is a named group of parameters and nested groups, the building block
// of every JavaSeis XML side-file.
type Parset struct {
	XMLName xml.Name  `xml:"parset"`
	Name    string    `xml:"name,attr"`
	Pars    []Par     `xml:"par"`
	Parsets []*Parset `xml:"parset"`
}

// Par is a single typed parameter. Strings are stored quoted and lists are
// stored as whitespace separated values.
type Par struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// NewParset returns an empty parameter group.
func NewParset(name string) *Parset {
	return &Parset{Name: name}
}

// Child returns the nested group called name.
func (p *Parset) Child(name string) (*Parset, bool) {
	for _, c := range p.Parsets {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// Find returns the first group called name, searching p and its descendants.
func (p *Parset) Find(name string) (*Parset, bool) {
	if p.Name == name {
		return p, true
	}
	for _, c := range p.Parsets {
		if found, ok := c.Find(name); ok {
			return found, true
		}
	}

	return nil, false
}

// AddChild appends a nested group and returns it.
func (p *Parset) AddChild(name string) *Parset {
	c := NewParset(name)
	p.Parsets = append(p.Parsets, c)

	return c
}

func (p *Parset) set(name, typ, value string) {
	for i := range p.Pars {
		if p.Pars[i].Name == name {
			p.Pars[i].Type, p.Pars[i].Value = typ, value
			return
		}
	}
	p.Pars = append(p.Pars, Par{Name: name, Type: typ, Value: value})
}

func (p *Parset) raw(name string) (string, error) {
	for _, par := range p.Pars {
		if par.Name == name {
			return strings.TrimSpace(par.Value), nil
		}
	}

	return "", fmt.Errorf("%w: parameter %s/%s not found", errs.ErrInvalidMetadata, p.Name, name)
}

func (p *Parset) SetString(name, v string) { p.set(name, TypeString, quote(v)) }

func (p *Parset) SetInt(name string, v int) { p.set(name, TypeInt, strconv.Itoa(v)) }

func (p *Parset) SetLong(name string, v int64) { p.set(name, TypeLong, strconv.FormatInt(v, 10)) }

func (p *Parset) SetDouble(name string, v float64) {
	p.set(name, TypeDouble, strconv.FormatFloat(v, 'g', -1, 64))
}

func (p *Parset) SetBool(name string, v bool) { p.set(name, TypeBoolean, strconv.FormatBool(v)) }

// SetStrings stores a list of quoted strings.
func (p *Parset) SetStrings(name string, vs []string) {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = quote(v)
	}
	p.set(name, TypeString, listValue(parts))
}

// SetLongs stores a list of 64-bit integers.
func (p *Parset) SetLongs(name string, vs []int64) {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatInt(v, 10)
	}
	p.set(name, TypeLong, listValue(parts))
}

// SetDoubles stores a list of 64-bit floats.
func (p *Parset) SetDoubles(name string, vs []float64) {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	p.set(name, TypeDouble, listValue(parts))
}

func (p *Parset) GetString(name string) (string, error) {
	v, err := p.raw(name)
	if err != nil {
		return "", err
	}

	return unquote(v), nil
}

func (p *Parset) GetInt(name string) (int, error) {
	v, err := p.raw(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s: %v", errs.ErrInvalidMetadata, p.Name, name, err)
	}

	return n, nil
}

func (p *Parset) GetLong(name string) (int64, error) {
	v, err := p.raw(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s: %v", errs.ErrInvalidMetadata, p.Name, name, err)
	}

	return n, nil
}

// GetUint64 parses an unsigned value, written by SetString or SetLong.
func (p *Parset) GetUint64(name string) (uint64, error) {
	v, err := p.GetString(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s: %v", errs.ErrInvalidMetadata, p.Name, name, err)
	}

	return n, nil
}

func (p *Parset) GetBool(name string) (bool, error) {
	v, err := p.raw(name)
	if err != nil {
		return false, err
	}

	return strings.EqualFold(v, "true"), nil
}

func (p *Parset) GetStrings(name string) ([]string, error) {
	v, err := p.raw(name)
	if err != nil {
		return nil, err
	}
	fields := splitQuoted(v)
	for i := range fields {
		fields[i] = unquote(fields[i])
	}

	return fields, nil
}

func (p *Parset) GetLongs(name string) ([]int64, error) {
	v, err := p.raw(name)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(v)
	out := make([]int64, len(fields))
	for i, f := range fields {
		if out[i], err = strconv.ParseInt(f, 10, 64); err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", errs.ErrInvalidMetadata, p.Name, name, err)
		}
	}

	return out, nil
}

func (p *Parset) GetDoubles(name string) ([]float64, error) {
	v, err := p.raw(name)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(v)
	out := make([]float64, len(fields))
	for i, f := range fields {
		if out[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", errs.ErrInvalidMetadata, p.Name, name, err)
		}
	}

	return out, nil
}

// Marshal renders p as an indented XML document.
func (p *Parset) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)

	return append(out, '\n'), nil
}

// UnmarshalParset parses an XML document rooted at a parset element.
func UnmarshalParset(data []byte) (*Parset, error) {
	var p Parset
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidMetadata, err)
	}

	return &p, nil
}

func quote(v string) string {
	return `"` + v + `"`
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}

	return v
}

// splitQuoted splits v on whitespace outside double quotes, so a quoted list
// element may contain spaces.
func splitQuoted(v string) []string {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range v {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
			cur.WriteRune(r)
		case !quoted && unicode.IsSpace(r):
			if pending {
				out = append(out, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		out = append(out, cur.String())
	}

	return out
}

func listValue(parts []string) string {
	return "\n      " + strings.Join(parts, " ") + "\n    "
}
