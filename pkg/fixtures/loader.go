package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// optionsKey is the reserved top-level key holding per-file options.
const optionsKey = "_fixture"

// referenceSuffix marks an attribute whose value is another fixture's label.
// "parent_label: alpha" resolves to "parent_id: <id of alpha>".
const referenceSuffix = "_label"

var (
	// ErrUnknownLabel is returned when a reference names a label not defined
	// in the same fixture file.
	ErrUnknownLabel = errors.New("unknown fixture label")
	// ErrReferenceCycle is returned by Insert when fixtures reference each
	// other in a loop, so no insertion order satisfies them.
	ErrReferenceCycle = errors.New("fixture reference cycle")
)

// Fixture is a single labelled record.
type Fixture struct {
	Label      string
	ID         string
	Attributes map[string]string
	// References lists, sorted, the labels this fixture points at through
	// *_label attributes.
	References []string
}

// Set is the parsed content of one fixture file. Fixtures keep file order;
// Insert reorders them so referenced fixtures go first.
type Set struct {
	// Collection is the file name without extension.
	Collection string
	// UUID reports whether identifiers are label UUIDs rather than integers.
	UUID     bool
	Fixtures []Fixture

	byLabel map[string]int
}

// Lookup returns the fixture with the given label.
func (s *Set) Lookup(label string) (Fixture, bool) {
	i, ok := s.byLabel[label]
	if !ok {
		return Fixture{}, false
	}
	return s.Fixtures[i], true
}

// Inserter persists fixtures for a host collection.
type Inserter interface {
	InsertFixture(ctx context.Context, f Fixture) error
}

// Insert hands each fixture to ins after every fixture it references,
// otherwise in file order, stopping at the first error. Nothing is inserted
// when the references form a cycle.
func (s *Set) Insert(ctx context.Context, ins Inserter) error {
	order, err := s.InsertionOrder()
	if err != nil {
		return err
	}
	for _, f := range order {
		if err := ins.InsertFixture(ctx, f); err != nil {
			return fmt.Errorf("fixtures: insert %s/%s: %w", s.Collection, f.Label, err)
		}
	}
	return nil
}

// InsertionOrder returns the fixtures sorted so each follows the fixtures it
// references. Unrelated fixtures keep their file order.
func (s *Set) InsertionOrder() ([]Fixture, error) {
	const (
		pending = iota
		visiting
		done
	)
	state := make([]int, len(s.Fixtures))
	order := make([]Fixture, 0, len(s.Fixtures))

	var visit func(i int, path []string) error
	visit = func(i int, path []string) error {
		f := s.Fixtures[i]
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("fixtures: %s: %w: %s", s.Collection, ErrReferenceCycle,
				strings.Join(append(path, f.Label), " -> "))
		}
		state[i] = visiting
		for _, ref := range f.References {
			j, ok := s.byLabel[ref]
			if !ok {
				return fmt.Errorf("fixtures: %s: fixture %q: %w: %q", s.Collection, f.Label, ErrUnknownLabel, ref)
			}
			if err := visit(j, append(path, f.Label)); err != nil {
				return err
			}
		}
		state[i] = done
		order = append(order, f)
		return nil
	}

	for i := range s.Fixtures {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Loader parses YAML fixture files.
type Loader struct {
	labelToInt LabelToInt
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLabelToInt replaces CRC32Label as the label → integer derivation.
func WithLabelToInt(fn LabelToInt) LoaderOption {
	return func(l *Loader) { l.labelToInt = fn }
}

// NewLoader returns a Loader configured by opts.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{labelToInt: CRC32Label}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Identify returns the identifier for label under this loader's derivation.
func (l *Loader) Identify(label string, asUUID bool) string {
	if asUUID {
		return FromLabelWith(l.labelToInt, label).String()
	}
	return strconv.FormatUint(uint64(l.labelToInt(label)), 10)
}

// LoadAll loads every *.yml and *.yaml file at the root of fsys, sorted by
// name.
func (l *Loader) LoadAll(fsys fs.FS) ([]*Set, error) {
	var names []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		m, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("fixtures: glob %s: %w", pattern, err)
		}
		names = append(names, m...)
	}
	sort.Strings(names)

	sets := make([]*Set, 0, len(names))
	for _, name := range names {
		s, err := l.Load(fsys, name)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

// Load parses the named fixture file.
func (l *Loader) Load(fsys fs.FS, name string) (*Set, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", name, err)
	}
	s, err := l.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %s: %w", name, err)
	}
	s.Collection = strings.TrimSuffix(path.Base(name), path.Ext(name))
	return s, nil
}

// Decode parses fixture YAML. The top level maps labels to attribute maps;
// the reserved "_fixture" entry holds options.
func (l *Loader) Decode(data []byte) (*Set, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	s := &Set{byLabel: map[string]int{}}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return s, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: top level must be a mapping of labels", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]

		if key.Value == optionsKey {
			var opts struct {
				UUID bool `yaml:"uuid"`
			}
			if err := val.Decode(&opts); err != nil {
				return nil, fmt.Errorf("line %d: options: %w", val.Line, err)
			}
			s.UUID = opts.UUID
			continue
		}

		if _, dup := s.byLabel[key.Value]; dup {
			return nil, fmt.Errorf("line %d: duplicate label %q", key.Line, key.Value)
		}
		attrs := map[string]string{}
		if val.Kind != yaml.ScalarNode || val.Tag != "!!null" {
			if err := val.Decode(&attrs); err != nil {
				return nil, fmt.Errorf("line %d: fixture %q: %w", val.Line, key.Value, err)
			}
		}

		s.byLabel[key.Value] = len(s.Fixtures)
		s.Fixtures = append(s.Fixtures, Fixture{Label: key.Value, Attributes: attrs})
	}

	// Options may appear anywhere in the file, so identifiers are derived
	// only once all entries are read.
	for i := range s.Fixtures {
		s.Fixtures[i].ID = l.Identify(s.Fixtures[i].Label, s.UUID)
	}

	for i := range s.Fixtures {
		f := &s.Fixtures[i]
		for k, v := range f.Attributes {
			field, ok := strings.CutSuffix(k, referenceSuffix)
			if !ok {
				continue
			}
			if _, known := s.byLabel[v]; !known {
				return nil, fmt.Errorf("fixture %q: %s: %w: %q", f.Label, k, ErrUnknownLabel, v)
			}
			delete(f.Attributes, k)
			f.Attributes[field+"_id"] = l.Identify(v, s.UUID)
			f.References = append(f.References, v)
		}
		sort.Strings(f.References)
	}

	return s, nil
}
