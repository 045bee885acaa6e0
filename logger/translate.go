package logger

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-sourcemap/sourcemap"
	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// location is a file position. Lines are 1-based, columns 0-based.
type location struct {
	file   string
	line   uint32
	column uint32
}

// MapEntry is the original position a symbol map records for a generated
// one. Line and Column are 0-based. HasOriginal is false for segments that
// carry no original position.
type MapEntry struct {
	Source      string
	Line        int
	Column      int
	HasOriginal bool
}

// Mapping finds the original position for a 0-based generated line and column.
type Mapping interface {
	FindEntry(line, column int) (MapEntry, bool)
}

// SymbolMaps returns the mapping for a file, or nil when there is none.
type SymbolMaps interface {
	Lookup(file string) (Mapping, error)
}

// translate maps loc back to its original source position. Without a
// mapping, a matching entry, or an entry with original coordinates, loc is
// returned unchanged.
func translate(loc location, m Mapping) location {
	if m == nil || loc.line == 0 {
		return loc
	}

	entry, ok := m.FindEntry(int(loc.line)-1, int(loc.column))
	if !ok || !entry.HasOriginal || entry.Line < 0 || entry.Column < 0 {
		return loc
	}

	out := location{
		file:   loc.file,
		line:   uint32(entry.Line) + 1,
		column: uint32(entry.Column),
	}
	if entry.Source != "" {
		out.file = entry.Source
	}
	return out
}

// NoSymbolMaps never finds a mapping.
type NoSymbolMaps struct{}

func (NoSymbolMaps) Lookup(string) (Mapping, error) { return nil, nil }

type lookupResult struct {
	mapping Mapping
	err     error
}

// FileSymbolMaps loads Source Map v3 files stored next to the source as
// "<file>.map". Results, including misses and parse failures, are cached for
// the lifetime of the value. Relative sources are resolved against the
// map's directory.
type FileSymbolMaps struct {
	readFile func(string) ([]byte, error)
	cache    sync.Map
	group    singleflight.Group
}

func NewFileSymbolMaps() *FileSymbolMaps {
	return &FileSymbolMaps{readFile: os.ReadFile}
}

func (m *FileSymbolMaps) Lookup(file string) (Mapping, error) {
	if v, ok := m.cache.Load(file); ok {
		r := v.(lookupResult)
		return r.mapping, r.err
	}

	v, _, _ := m.group.Do(file, func() (any, error) {
		if v, ok := m.cache.Load(file); ok {
			return v, nil
		}
		r := m.load(file)
		m.cache.Store(file, r)
		return r, nil
	})
	r := v.(lookupResult)
	return r.mapping, r.err
}

func (m *FileSymbolMaps) load(file string) lookupResult {
	path := file + ".map"
	data, err := m.readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return lookupResult{}
	}
	if err != nil {
		return lookupResult{err: fmt.Errorf("read symbol map %s: %w", path, err)}
	}

	consumer, err := sourcemap.Parse(path, data)
	if err != nil {
		return lookupResult{err: fmt.Errorf("parse symbol map %s: %w", path, err)}
	}

	var raw rawSourceMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return lookupResult{err: fmt.Errorf("parse symbol map %s: %w", path, err)}
	}
	dir := filepath.Dir(path)

	if len(raw.Sections) > 0 {
		return lookupResult{mapping: sectionMapping{consumer: consumer, dir: dir}}
	}

	lines, err := parseLineIndex(raw.Mappings)
	if err != nil {
		return lookupResult{err: fmt.Errorf("parse symbol map %s: %w", path, err)}
	}
	sources := make([]string, len(raw.Sources))
	for i, src := range raw.Sources {
		sources[i] = resolveSource(dir, raw.SourceRoot, src)
	}
	return lookupResult{mapping: &indexedMapping{sources: sources, lines: lines}}
}

type rawSourceMap struct {
	SourceRoot string            `json:"sourceRoot"`
	Sources    []string          `json:"sources"`
	Mappings   string            `json:"mappings"`
	Sections   []json.RawMessage `json:"sections"`
}

// indexedMapping answers only from segments on the queried generated line.
type indexedMapping struct {
	sources []string
	lines   lineIndex
}

func (m *indexedMapping) FindEntry(line, column int) (MapEntry, bool) {
	seg, ok := m.lines.find(line, column)
	if !ok {
		return MapEntry{}, false
	}
	if seg.source < 0 || seg.source >= len(m.sources) {
		return MapEntry{}, true
	}
	return MapEntry{
		Source:      m.sources[seg.source],
		Line:        seg.line,
		Column:      seg.column,
		HasOriginal: true,
	}, true
}

// sectionMapping serves index maps through a sourcemap.Consumer, whose
// lines are 1-based.
type sectionMapping struct {
	consumer *sourcemap.Consumer
	dir      string
}

func (s sectionMapping) FindEntry(line, column int) (MapEntry, bool) {
	source, _, origLine, origColumn, ok := s.consumer.Source(line+1, column)
	if !ok {
		return MapEntry{}, false
	}
	return MapEntry{
		Source:      resolveSource(s.dir, "", source),
		Line:        origLine - 1,
		Column:      origColumn,
		HasOriginal: origLine > 0,
	}, true
}

// resolveSource makes a map's source entry usable as a file path. Relative
// entries are taken relative to the directory holding the map. URLs other
// than file:// are returned unchanged.
func resolveSource(dir, root, source string) string {
	if source == "" {
		return ""
	}
	if root != "" && !strings.HasPrefix(source, "/") && !hasScheme(source) {
		source = strings.TrimSuffix(root, "/") + "/" + source
	}
	if strings.HasPrefix(source, "file://") {
		return filepath.FromSlash(strings.TrimPrefix(source, "file://"))
	}
	if hasScheme(source) {
		return source
	}
	if filepath.IsAbs(source) || strings.HasPrefix(source, "/") {
		return filepath.FromSlash(source)
	}
	return filepath.Join(dir, filepath.FromSlash(source))
}

func hasScheme(s string) bool {
	u, err := url.Parse(s)
	return err == nil && len(u.Scheme) > 1
}
