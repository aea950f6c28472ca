package elements

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

//go:embed element_types.yaml
var defaultTable []byte

var ErrUnknownElementType = errors.New("unknown element type")

// Info describes one element type: its geometric dimension and the number of
// node ids on each connectivity row
type Info struct {
	Dim   int `json:"dim"`
	Nodes int `json:"nodes"`
}

// Catalog maps element type names to their Info. A Catalog is never modified
// after construction and can be shared between concurrent readers.
type Catalog struct {
	types map[string]Info
}

// NewCatalog builds a catalog from a table, normalizing names to upper case
func NewCatalog(table map[string]Info) (cat *Catalog, err error) {
	cat = &Catalog{types: make(map[string]Info, len(table))}
	for name, info := range table {
		key := Canonical(name)
		if len(key) == 0 {
			return nil, fmt.Errorf("element catalog: empty element type name")
		}
		if info.Nodes <= 0 {
			return nil, fmt.Errorf("element catalog: type %s has %d nodes, must be positive", key, info.Nodes)
		}
		if info.Dim < 0 || info.Dim > 3 {
			return nil, fmt.Errorf("element catalog: type %s has dimension %d, must be 0..3", key, info.Dim)
		}
		if _, dup := cat.types[key]; dup {
			return nil, fmt.Errorf("element catalog: type %s defined twice", key)
		}
		cat.types[key] = info
	}
	return
}

// LoadCatalog parses a YAML table of the form
//
//	C3D8: {dim: 3, nodes: 8}
func LoadCatalog(data []byte) (*Catalog, error) {
	var table map[string]Info
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("element catalog: %w", err)
	}
	return NewCatalog(table)
}

// ReadCatalogFile loads a catalog from a YAML file
func ReadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := LoadCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

var defaultCatalog *Catalog

func init() {
	var err error
	if defaultCatalog, err = LoadCatalog(defaultTable); err != nil {
		panic(err)
	}
}

// Default returns the built-in catalog
func Default() *Catalog { return defaultCatalog }

// Canonical returns the lookup form of an element type name
func Canonical(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Lookup returns the Info for an element type
func (c *Catalog) Lookup(name string) (Info, error) {
	info, ok := c.types[Canonical(name)]
	if !ok {
		return Info{}, fmt.Errorf("%w: %q", ErrUnknownElementType, name)
	}
	return info, nil
}

// Has reports whether the catalog knows the element type
func (c *Catalog) Has(name string) bool {
	_, ok := c.types[Canonical(name)]
	return ok
}

func (c *Catalog) Len() int { return len(c.types) }

// Names returns the element type names in sorted order
func (c *Catalog) Names() (names []string) {
	names = make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
