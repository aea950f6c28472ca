package deck

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/notargets/meshdeck/elements"
	"github.com/notargets/meshdeck/mesh"
)

// Reader parses keyword decks into meshes
type Reader struct {
	Catalog  *elements.Catalog
	Validate bool
	// Encoding decodes the input to UTF-8, nil reads the bytes as they are
	Encoding encoding.Encoding
}

// NewReader returns a validating reader, a nil catalog selects elements.Default()
func NewReader(cat *elements.Catalog) *Reader {
	if cat == nil {
		cat = elements.Default()
	}
	return &Reader{Catalog: cat, Validate: true}
}

// ReadFile reads a deck with the default catalog and validation enabled
func ReadFile(path string) (*mesh.Mesh, error) {
	return NewReader(nil).ReadFile(path)
}

func (r *Reader) ReadFile(path string) (m *mesh.Mesh, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	p := r.newParser(abs, filepath.Dir(abs), nil)
	if err = p.parseFile(abs); err != nil {
		return nil, err
	}
	return p.finalize(r.Validate)
}

// Read parses a deck from src; INCLUDE paths resolve against baseDir
func (r *Reader) Read(src io.Reader, baseDir string) (m *mesh.Mesh, err error) {
	p := r.newParser("<input>", baseDir, nil)
	if err = p.parse(src); err != nil {
		return nil, err
	}
	return p.finalize(r.Validate)
}

type parser struct {
	cat      *elements.Catalog
	encoding encoding.Encoding
	file     string
	baseDir  string
	stack    []string // absolute paths of the files being parsed, outermost first

	points   [][][3]float64
	pointIDs [][]int
	known    map[int]struct{}
	sawNode  bool
	cells    []*mesh.ElementBlock
	sets     mesh.Sets

	inlineNodeSets *mesh.NamedSets[int]
	inlineElemSets *mesh.NamedSets[int]
	nodesOfElsets  []pendingNodeSet
}

func (r *Reader) newParser(file, baseDir string, known map[int]struct{}) *parser {
	cat := r.Catalog
	if cat == nil {
		cat = elements.Default()
	}
	p := &parser{
		cat:            cat,
		encoding:       r.Encoding,
		file:           file,
		baseDir:        baseDir,
		known:          make(map[int]struct{}, len(known)),
		sets:           mesh.NewSets(),
		inlineNodeSets: mesh.NewNamedSets[int](),
		inlineElemSets: mesh.NewNamedSets[int](),
	}
	for id := range known {
		p.known[id] = struct{}{}
	}
	p.sawNode = len(p.known) != 0
	return p
}

func (p *parser) addPoints(coords [][3]float64, ids []int) {
	if len(ids) == 0 {
		return
	}
	p.sawNode = true
	p.points = append(p.points, coords)
	p.pointIDs = append(p.pointIDs, ids)
	for _, id := range ids {
		p.known[id] = struct{}{}
	}
}

func (p *parser) parseFile(path string) (err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	p.stack = append(p.stack, path)
	return p.parse(file)
}

func (p *parser) parse(src io.Reader) (err error) {
	if p.encoding != nil {
		src = transform.NewReader(src, p.encoding.NewDecoder())
	}
	lr := newLineReader(src, p.file)
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		if !isKeyword(line) {
			return lr.errorf(malformed("data line %q outside of any keyword section", line))
		}
		kw, _, tail := splitKeyword(line)
		switch kw {
		case KeywordNode:
			var opts Options
			if opts, err = p.keywordOptions(lr, line, tail); err != nil {
				return
			}
			err = p.readNodes(lr, opts)
		case KeywordElement:
			var opts Options
			if opts, err = p.keywordOptions(lr, line, tail, "TYPE"); err != nil {
				return
			}
			if !p.sawNode {
				return lr.errorf(ErrOrder)
			}
			err = p.readElements(lr, opts)
		case KeywordNSet:
			var opts Options
			if opts, err = p.keywordOptions(lr, line, tail, "NSET"); err != nil {
				return
			}
			err = p.readNSet(lr, opts)
		case KeywordElSet:
			var opts Options
			if opts, err = p.keywordOptions(lr, line, tail, "ELSET"); err != nil {
				return
			}
			err = p.readElSet(lr, opts)
		case KeywordSurface:
			var opts Options
			if opts, err = p.keywordOptions(lr, line, tail, "NAME", "TYPE"); err != nil {
				return
			}
			err = p.readSurface(lr, opts)
		case KeywordInclude:
			var opts Options
			if opts, err = p.keywordOptions(lr, line, tail, "INPUT"); err != nil {
				return
			}
			if err = p.include(opts.Get("INPUT")); err != nil {
				err = lr.errorf(err)
			}
		default:
			skipSection(lr)
		}
		if err != nil {
			return
		}
	}
	return lr.err()
}

// include parses the referenced deck without validation and merges it
func (p *parser) include(name string) (err error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, path)
	}
	if path, err = filepath.Abs(path); err != nil {
		return
	}
	for _, open := range p.stack {
		if open == path {
			return fmt.Errorf("%w: %s", ErrIncludeCycle, path)
		}
	}
	if _, err = os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingIncludeFile, path)
		}
		return
	}
	sub := &Reader{Catalog: p.cat, Encoding: p.encoding}
	child := sub.newParser(path, filepath.Dir(path), p.known)
	child.stack = append([]string{}, p.stack...)
	if err = child.parseFile(path); err != nil {
		return
	}
	var m *mesh.Mesh
	if m, err = child.finalize(false); err != nil {
		return
	}
	var grouped []*mesh.ElementBlock
	if grouped, err = mesh.GroupConcat(m.Cells); err != nil {
		return
	}
	p.addPoints(m.Points, m.PointIDs)
	p.sawNode = p.sawNode || child.sawNode
	p.cells = append(p.cells, grouped...)
	p.sets.Merge(m.Sets)
	return
}

// finalize folds the inline sets into the standalone ones and builds the mesh
func (p *parser) finalize(validate bool) (*mesh.Mesh, error) {
	p.inlineNodeSets.Each(func(name string, ids []int) {
		p.sets.NodeSets.Append(name, ids...)
	})
	p.inlineElemSets.Each(func(name string, ids []int) {
		p.sets.ElementSets.Append(name, ids...)
	})
	for _, pending := range p.nodesOfElsets {
		nodes, err := p.elementSetNodes(pending.elsets)
		if err != nil {
			le := *pending.at
			le.Err = err
			return nil, &le
		}
		p.sets.NodeSets.Append(pending.name, nodes...)
	}
	var (
		points   = make([][3]float64, 0, p.numPoints())
		pointIDs = make([]int, 0, p.numPoints())
	)
	for i := range p.points {
		points = append(points, p.points[i]...)
		pointIDs = append(pointIDs, p.pointIDs[i]...)
	}
	return mesh.New(p.cat, points, pointIDs, p.cells, p.sets, validate)
}

func (p *parser) numPoints() (n int) {
	for _, ids := range p.pointIDs {
		n += len(ids)
	}
	return
}
