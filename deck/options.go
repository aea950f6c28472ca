package deck

import "strings"

// Options holds the KEY=VALUE and bare KEY tokens of a keyword line. Keys are
// upper case; bare flags map to the empty string.
type Options map[string]string

// ParseOptions splits the comma separated tail of a keyword line. A token
// splits on its first '=' so values may themselves contain '='. Required keys
// are matched case-insensitively; all missing ones are reported together.
func ParseOptions(line string, required ...string) (Options, error) {
	opts := make(Options)
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		if key, value, found := strings.Cut(part, "="); found {
			opts[strings.ToUpper(strings.TrimSpace(key))] = strings.TrimSpace(value)
		} else {
			opts[strings.ToUpper(part)] = ""
		}
	}
	var missing []string
	for _, key := range required {
		key = strings.ToUpper(key)
		if !opts.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) != 0 {
		return nil, &MissingOptionError{Keys: missing, Line: line}
	}
	return opts, nil
}

func (o Options) Has(key string) bool {
	_, ok := o[strings.ToUpper(key)]
	return ok
}

// Get returns the value of key with surrounding double quotes removed
func (o Options) Get(key string) string {
	return strings.Trim(o[strings.ToUpper(key)], `"`)
}
