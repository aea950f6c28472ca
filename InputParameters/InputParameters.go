package InputParameters

import (
	"fmt"
	"os"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/go-playground/validator/v10"

	"github.com/notargets/meshdeck/deck"
	"github.com/notargets/meshdeck/elements"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("encoding", func(fl validator.FieldLevel) bool {
		_, err := deck.LookupEncoding(fl.Field().String())
		return err == nil
	})
}

// Parameters obtained from the YAML input file
type DeckParameters struct {
	Title          string                   `yaml:"Title"`
	ElementTypes   string                   `yaml:"ElementTypes" validate:"omitempty,file"` // catalog YAML path
	ElementCatalog map[string]elements.Info `yaml:"ElementCatalog"`                         // replaces the embedded catalog
	FieldsPerLine  int                      `yaml:"FieldsPerLine" validate:"omitempty,min=1,max=16"`
	Comment        string                   `yaml:"Comment"`
	Encoding       string                   `yaml:"Encoding" validate:"omitempty,encoding"`
	SkipValidation bool                     `yaml:"SkipValidation"`
}

func (dp *DeckParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, dp)
}

func ReadFile(path string) (dp *DeckParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	dp = &DeckParameters{}
	if err = dp.Parse(data); err != nil {
		return nil, fmt.Errorf("parameters file %s: %w", path, err)
	}
	return
}

func (dp *DeckParameters) Validate() error {
	if err := validate.Struct(dp); err != nil {
		return fmt.Errorf("invalid deck parameters: %w", err)
	}
	if len(dp.ElementCatalog) != 0 && len(dp.ElementTypes) != 0 {
		return fmt.Errorf("invalid deck parameters: ElementTypes and ElementCatalog are exclusive")
	}
	return nil
}

func (dp *DeckParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", dp.Title)
	if len(dp.ElementTypes) != 0 {
		fmt.Printf("[%s]\t= ElementTypes\n", dp.ElementTypes)
	}
	fmt.Printf("[%d]\t\t\t\t= FieldsPerLine\n", dp.FieldsPerLine)
	fmt.Printf("[%s]\t\t\t= Encoding\n", dp.Encoding)
	fmt.Printf("[%v]\t\t\t= SkipValidation\n", dp.SkipValidation)
	if len(dp.Comment) != 0 {
		fmt.Printf("\"%s\"\t= Comment\n", dp.Comment)
	}
	keys := make([]string, len(dp.ElementCatalog))
	i := 0
	for k := range dp.ElementCatalog {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("ElementCatalog[%s] = %+v\n", key, dp.ElementCatalog[key])
	}
}

// Catalog resolves the element catalog: the inline table, then the catalog
// file, then the embedded default
func (dp *DeckParameters) Catalog() (*elements.Catalog, error) {
	switch {
	case len(dp.ElementCatalog) != 0:
		return elements.NewCatalog(dp.ElementCatalog)
	case len(dp.ElementTypes) != 0:
		return elements.ReadCatalogFile(dp.ElementTypes)
	default:
		return elements.Default(), nil
	}
}

// NewReader returns a deck reader configured from the parameters
func (dp *DeckParameters) NewReader() (r *deck.Reader, err error) {
	var cat *elements.Catalog
	if cat, err = dp.Catalog(); err != nil {
		return
	}
	r = deck.NewReader(cat)
	r.Validate = !dp.SkipValidation
	if r.Encoding, err = deck.LookupEncoding(dp.Encoding); err != nil {
		return nil, err
	}
	return
}

// Configure applies the output settings to a deck writer
func (dp *DeckParameters) Configure(w *deck.Writer) {
	if dp.FieldsPerLine > 0 {
		w.FieldsPerLine = dp.FieldsPerLine
	}
	w.Comment = dp.Comment
	if len(w.Comment) == 0 && len(dp.Title) != 0 {
		w.Comment = dp.Title
	}
}
