package deck

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/notargets/meshdeck/mesh"
)

const DefaultFieldsPerLine = 8

var separator = commentPrefix + strings.Repeat("-", 78)

// Writer formats a mesh as a keyword deck
type Writer struct {
	w             *bufio.Writer
	Comment       string // leading comment, each line written with a "** " prefix if it has none
	FieldsPerLine int    // ids per set line
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), FieldsPerLine: DefaultFieldsPerLine}
}

// WriteFile writes m to path, truncating any existing file
func WriteFile(path string, m *mesh.Mesh) (err error) {
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return NewWriter(file).Write(m)
}

func (dw *Writer) Write(m *mesh.Mesh) (err error) {
	dw.writeComment()
	sections := []func(*mesh.Mesh){
		dw.writeNodes,
		dw.writeNodeSets,
		dw.writeElements,
		dw.writeElementSets,
		dw.writeSurfaces,
	}
	for _, section := range sections {
		section(m)
		if err = dw.w.Flush(); err != nil {
			return
		}
	}
	return
}

func (dw *Writer) line(s string) {
	dw.w.WriteString(s)
	dw.w.WriteByte('\n')
}

func (dw *Writer) linef(format string, args ...interface{}) {
	fmt.Fprintf(dw.w, format, args...)
	dw.w.WriteByte('\n')
}

// writeComment writes every line of Comment as a "**" comment line
func (dw *Writer) writeComment() {
	if len(dw.Comment) == 0 {
		return
	}
	for _, text := range strings.Split(strings.ReplaceAll(dw.Comment, "\r\n", "\n"), "\n") {
		text = strings.TrimRight(text, "\r")
		if !isComment(strings.TrimSpace(text)) {
			text = commentPrefix + " " + text
		}
		dw.line(text)
	}
}

func (dw *Writer) header(title string) {
	dw.line(separator)
	dw.line("**  " + title)
}

func (dw *Writer) writeNodes(m *mesh.Mesh) {
	dw.header("NODE DEFINITION")
	dw.line("*NODE")
	for i, xyz := range m.Points {
		dw.linef("%9d, %10.6f, %10.6f, %10.6f", m.PointIDs[i], xyz[0], xyz[1], xyz[2])
	}
	dw.line("**--end--node--definition")
}

func (dw *Writer) writeNodeSets(m *mesh.Mesh) {
	dw.header("NODE SET DEFINITION")
	m.NodeSets.Each(func(name string, ids []int) {
		if len(ids) == 0 {
			return
		}
		dw.linef("*NSET, NSET=%s", name)
		dw.writeIDs(ids)
		dw.line(separator)
	})
	dw.line("**--end--node--set--definition")
}

func (dw *Writer) writeElements(m *mesh.Mesh) {
	dw.header("ELEMENT DEFINITION")
	for _, b := range m.Cells {
		if b == nil || b.IsEmpty() {
			continue
		}
		dw.linef("*ELEMENT, TYPE=%s", b.Type)
		for i, id := range b.IDs {
			dw.linef(" %d,%s,", id, joinIDs(b.Connectivity[i]))
		}
		dw.line(separator)
	}
	dw.line("**--end--element--definition")
}

func (dw *Writer) writeElementSets(m *mesh.Mesh) {
	dw.header("ELEMENT SET DEFINITION")
	m.ElementSets.Each(func(name string, ids []int) {
		if len(ids) == 0 {
			return
		}
		dw.linef("*ELSET, ELSET=%s", name)
		dw.writeIDs(ids)
		dw.line(separator)
	})
	dw.line("**--end--element--set--definition")
}

func (dw *Writer) writeSurfaces(m *mesh.Mesh) {
	dw.header("SURFACE DEFINITIONS")
	m.SurfaceSets.Each(func(name string, tokens []string) {
		if len(tokens) == 0 {
			return
		}
		dw.linef("*SURFACE, NAME=%s, TYPE=%s", name, m.SurfaceType(name))
		for i := 0; i < len(tokens); i += 2 {
			end := min(i+2, len(tokens))
			cols := make([]string, 0, 2)
			for _, tok := range tokens[i:end] {
				cols = append(cols, fmt.Sprintf("%9s", tok))
			}
			dw.line(" " + strings.Join(cols, ","))
		}
		dw.line(separator)
	})
	dw.line("**--end--surface--definition")
}

// writeIDs writes FieldsPerLine ids per line, every line comma terminated
func (dw *Writer) writeIDs(ids []int) {
	n := dw.FieldsPerLine
	if n <= 0 {
		n = DefaultFieldsPerLine
	}
	for i := 0; i < len(ids); i += n {
		dw.line(joinIDs(ids[i:min(i+n, len(ids))]) + ",")
	}
}

func joinIDs(ids []int) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%9d", id)
	}
	return sb.String()
}
