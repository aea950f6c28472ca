package deck

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// charmaps lists the single byte encodings legacy pre-processors export
// decks in. UTF-8 and plain ASCII need no decoder.
var charmaps = map[string]*charmap.Charmap{
	"latin1":       charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin9":       charmap.ISO8859_15,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1250": charmap.Windows1250,
	"cp1250":       charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
}

// LookupEncoding maps an encoding name to its decoder; "", "utf-8" and
// "ascii" return nil
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "utf-8", "utf8", "ascii":
		return nil, nil
	}
	if cm, ok := charmaps[key]; ok {
		return cm, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q, expected one of %s",
		name, strings.Join(EncodingNames(), ", "))
}

// EncodingNames returns every accepted encoding name, sorted
func EncodingNames() (names []string) {
	names = []string{"utf-8", "utf8", "ascii"}
	for name := range charmaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
