package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/meshdeck/elements"
	"github.com/notargets/meshdeck/mesh"
)

// keywordOptions parses the options of a keyword line, reporting the full
// line on missing keys
func (p *parser) keywordOptions(lr *lineReader, line, tail string, required ...string) (Options, error) {
	opts, err := ParseOptions(tail, required...)
	if err != nil {
		var moe *MissingOptionError
		if errors.As(err, &moe) {
			moe.Line = line
		}
		return nil, lr.errorf(err)
	}
	return opts, nil
}

// readNodes reads "id, x, y, z" rows until the next keyword
func (p *parser) readNodes(lr *lineReader, opts Options) error {
	var (
		coords [][3]float64
		ids    []int
	)
	for {
		line, ok := lr.nextData()
		if !ok {
			break
		}
		fs := fields(line)
		if len(fs) == 0 {
			return lr.errorf(malformed("node line %q has no fields", line))
		}
		id, err := strconv.Atoi(fs[0])
		if err != nil {
			return lr.errorf(malformed("node line %q: %v", line, err))
		}
		if len(fs)-1 != 3 {
			return lr.errorf(malformed("node %d does not have 3 coordinates: %v", id, fs[1:]))
		}
		var xyz [3]float64
		for j := 0; j < 3; j++ {
			if xyz[j], err = strconv.ParseFloat(fs[1+j], 64); err != nil {
				return lr.errorf(malformed("node line %q: %v", line, err))
			}
		}
		coords = append(coords, xyz)
		ids = append(ids, id)
	}
	p.sawNode = true
	p.addPoints(coords, ids)
	if opts.Has("NSET") {
		p.inlineNodeSets.Append(opts.Get("NSET"), ids...)
	}
	return nil
}

// readElements reads "id, n1, ..., nk" rows for one *ELEMENT block. A row
// holding fewer than k node ids continues on the next data line when it ends
// with a comma.
func (p *parser) readElements(lr *lineReader, opts Options) error {
	typ := opts.Get("TYPE")
	info, err := p.cat.Lookup(typ)
	if err != nil {
		return lr.errorf(err)
	}
	var (
		ids  []int
		conn [][]int
	)
	for {
		line, ok := lr.nextData()
		if !ok {
			break
		}
		values, err := parseInts(fields(line))
		if err != nil {
			return lr.errorf(malformed("element line %q: %v", line, err))
		}
		if len(values) == 0 {
			return lr.errorf(malformed("element line %q has no fields", line))
		}
		id, nodes := values[0], values[1:]
		for len(nodes) < info.Nodes && strings.HasSuffix(line, ",") {
			if line, ok = lr.nextData(); !ok {
				break
			}
			more, err := parseInts(fields(line))
			if err != nil {
				return lr.errorf(malformed("element %d continuation line %q: %v", id, line, err))
			}
			nodes = append(nodes, more...)
		}
		if len(nodes) != info.Nodes {
			return lr.errorf(malformed("element %d of type %s expects %d nodes, but got %d: %v",
				id, elements.Canonical(typ), info.Nodes, len(nodes), nodes))
		}
		var undefined []int
		for _, node := range nodes {
			if _, ok := p.known[node]; !ok {
				undefined = append(undefined, node)
			}
		}
		if len(undefined) != 0 {
			de := mesh.NewDanglingError(mesh.ErrDanglingReference, "", undefined)
			de.Element = id
			return lr.errorf(de)
		}
		ids = append(ids, id)
		conn = append(conn, nodes)
	}
	block, err := mesh.NewElementBlock(p.cat, typ, ids, conn)
	if err != nil {
		return lr.errorf(err)
	}
	p.cells = append(p.cells, block)
	if opts.Has("ELSET") {
		p.inlineElemSets.Append(opts.Get("ELSET"), ids...)
	}
	return nil
}

// readSet reads the data lines of *NSET, *ELSET or *SURFACE. Lines made only
// of integers contribute ids; any other line contributes its tokens as names.
// With GENERATE the ids must be exactly start, end, step.
func readSet(lr *lineReader, opts Options) (ids []int, names []string, err error) {
	for {
		line, ok := lr.nextData()
		if !ok {
			break
		}
		fs := fields(line)
		if values, perr := parseInts(fs); perr == nil {
			ids = append(ids, values...)
		} else {
			names = append(names, fs...)
		}
	}
	if !opts.Has("GENERATE") {
		return
	}
	if len(names) != 0 {
		return nil, nil, lr.errorf(malformed("GENERATE expects integers, got %v", names))
	}
	if ids, err = Generate(ids); err != nil {
		return nil, nil, lr.errorf(err)
	}
	return
}

// maxGenerated bounds the ids a single GENERATE line may expand to
const maxGenerated = 1 << 22

// Generate expands start, end, step into the inclusive range
// start, start+step, ... <= end
func Generate(values []int) ([]int, error) {
	if len(values) != 3 {
		return nil, malformed("GENERATE option requires 3 values (start, end, increment), but got %d: %v",
			len(values), values)
	}
	start, end, step := values[0], values[1], values[2]
	if step <= 0 {
		return nil, malformed("GENERATE increment must be positive, got %d", step)
	}
	ids := []int{}
	if end < start {
		return ids, nil
	}
	// end >= start, so the unsigned difference is exact even across zero
	steps := (uint64(end) - uint64(start)) / uint64(step)
	if steps >= maxGenerated {
		return nil, malformed("GENERATE %d, %d, %d expands to more than %d ids", start, end, step, maxGenerated)
	}
	for i := 0; i <= int(steps); i++ {
		ids = append(ids, start+i*step)
	}
	return ids, nil
}

// resolve expands set names against the standalone and inline pending
// collections, in that order
func resolve(names []string, standalone, inline *mesh.NamedSets[int]) (ids []int, err error) {
	for _, name := range names {
		a, inA := standalone.Get(name)
		b, inB := inline.Get(name)
		if !inA && !inB {
			return nil, fmt.Errorf("%w: unknown set '%s'", ErrUnknownSetReference, name)
		}
		ids = append(ids, a...)
		ids = append(ids, b...)
	}
	return
}

// readNSet reads a *NSET. With the ELSET option, name lines (and the option
// value) are element sets whose nodes join the node set once the whole deck
// is read; otherwise name lines are node sets.
func (p *parser) readNSet(lr *lineReader, opts Options) error {
	at := &LineError{File: lr.file, Line: lr.lineNo, Text: lr.text}
	ids, names, err := readSet(lr, opts)
	if err != nil {
		return err
	}
	name := opts.Get("NSET")
	if opts.Has("ELSET") {
		p.sets.NodeSets.Append(name, ids...)
		p.nodesOfElsets = append(p.nodesOfElsets, pendingNodeSet{
			name:   name,
			elsets: withOption(names, opts.Get("ELSET")),
			at:     at,
		})
		return nil
	}
	refs, err := resolve(names, p.sets.NodeSets, p.inlineNodeSets)
	if err != nil {
		return lr.errorf(err)
	}
	p.sets.NodeSets.Append(name, append(ids, refs...)...)
	return nil
}

// pendingNodeSet is a node set built from the nodes of element sets
type pendingNodeSet struct {
	name   string
	elsets []string
	at     *LineError // position of the *NSET keyword line
}

// withOption prepends a non-empty option value to names unless already listed
func withOption(names []string, value string) []string {
	if len(value) == 0 {
		return names
	}
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), value) {
			return names
		}
	}
	return append([]string{value}, names...)
}

// elementSetNodes returns the nodes of the elements that belong to the named
// element sets, each once, in block order
func (p *parser) elementSetNodes(names []string) (nodes []int, err error) {
	var members []int
	if members, err = resolve(names, p.sets.ElementSets, nil); err != nil {
		return
	}
	wanted := make(map[int]struct{}, len(members))
	for _, id := range members {
		wanted[id] = struct{}{}
	}
	seen := make(map[int]struct{})
	for _, b := range p.cells {
		for i, id := range b.IDs {
			if _, ok := wanted[id]; !ok {
				continue
			}
			for _, node := range b.Connectivity[i] {
				if _, dup := seen[node]; !dup {
					seen[node] = struct{}{}
					nodes = append(nodes, node)
				}
			}
		}
	}
	return
}

func (p *parser) readElSet(lr *lineReader, opts Options) error {
	ids, names, err := readSet(lr, opts)
	if err != nil {
		return err
	}
	refs, err := resolve(names, p.sets.ElementSets, p.inlineElemSets)
	if err != nil {
		return lr.errorf(err)
	}
	p.sets.ElementSets.Append(opts.Get("ELSET"), append(ids, refs...)...)
	return nil
}

// readSurface keeps the named reference lines of a *SURFACE; numeric lines are
// not modelled
func (p *parser) readSurface(lr *lineReader, opts Options) error {
	_, names, err := readSet(lr, opts)
	if err != nil {
		return err
	}
	p.sets.AddSurface(opts.Get("NAME"), strings.ToUpper(opts.Get("TYPE")), names...)
	return nil
}

func skipSection(lr *lineReader) {
	for {
		if _, ok := lr.nextData(); !ok {
			return
		}
	}
}
