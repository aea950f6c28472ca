package deck

import "strings"

// Keyword identifies the section a keyword line opens
type Keyword uint8

const (
	KeywordUnknown Keyword = iota
	KeywordNode
	KeywordElement
	KeywordNSet
	KeywordElSet
	KeywordSurface
	KeywordInclude
)

var keywordNames = map[string]Keyword{
	"NODE":    KeywordNode,
	"ELEMENT": KeywordElement,
	"NSET":    KeywordNSet,
	"ELSET":   KeywordElSet,
	"SURFACE": KeywordSurface,
	"INCLUDE": KeywordInclude,
}

func (k Keyword) String() string {
	return [...]string{"UNKNOWN", "NODE", "ELEMENT", "NSET", "ELSET", "SURFACE", "INCLUDE"}[k]
}

const (
	commentPrefix = "**"
	keywordPrefix = "*"
)

func isComment(line string) bool { return strings.HasPrefix(line, commentPrefix) }

func isKeyword(line string) bool {
	return strings.HasPrefix(line, keywordPrefix) && !isComment(line)
}

// splitKeyword returns the keyword of a keyword line, its normalized token and
// the option tail following the first comma
func splitKeyword(line string) (kw Keyword, token, tail string) {
	head, tail, _ := strings.Cut(line, ",")
	token = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(head, keywordPrefix, "")))
	kw = keywordNames[token]
	return
}
