package catalog

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrDuplicateName is returned when a catalog is built with a name or alias that is already in use.
var ErrDuplicateName = errors.New("duplicate name")

type (
	spelling struct {
		name          string
		aliases       []string
		caseSensitive bool
	}

	// registry maps every spelling of an entry to the entry's index.
	registry struct {
		exact       map[string]int
		folded      map[string]int
		aliasExact  map[string]bool
		aliasFolded map[string]bool
	}
)

func newRegistry(entries []spelling) (*registry, error) {
	r := &registry{
		exact:       make(map[string]int),
		folded:      make(map[string]int),
		aliasExact:  make(map[string]bool),
		aliasFolded: make(map[string]bool),
	}

	for i, e := range entries {
		for j, name := range append([]string{e.name}, e.aliases...) {
			if prev, ok := r.exact[name]; ok {
				return nil, errors.Wrapf(ErrDuplicateName, "%q registered by %q and %q", name, entries[prev].name, e.name)
			}

			r.exact[name] = i
			if j > 0 {
				r.aliasExact[name] = true
			}
		}
	}

	for i, e := range entries {
		if e.caseSensitive {
			continue
		}

		for j, name := range append([]string{e.name}, e.aliases...) {
			key := strings.ToLower(name)
			if prev, ok := r.folded[key]; ok && prev != i {
				return nil, errors.Wrapf(ErrDuplicateName, "%q registered by %q and %q", key, entries[prev].name, e.name)
			}
			if prev, ok := r.exact[key]; ok && prev != i {
				return nil, errors.Wrapf(ErrDuplicateName, "%q registered by %q and %q", key, entries[prev].name, e.name)
			}

			r.folded[key] = i
			if j > 0 && strings.ToLower(e.name) != key {
				r.aliasFolded[key] = true
			}
		}
	}

	return r, nil
}

func (r *registry) lookup(name string) (int, bool) {
	if i, ok := r.exact[name]; ok {
		return i, true
	}

	i, ok := r.folded[strings.ToLower(name)]
	return i, ok
}

func (r *registry) isAlias(name string) bool {
	if _, ok := r.exact[name]; ok {
		return r.aliasExact[name]
	}

	return r.aliasFolded[strings.ToLower(name)]
}
