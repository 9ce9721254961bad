// Package db loads the component databases: CSV spec records for motors,
// ESCs and cameras, and propeller performance tables.
//
// Records are parsed once when the database is opened and are read-only
// afterwards; callers receive deep copies. Propeller tables are parsed on
// first use and kept in an LRU cache.
package db

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/brunoga/deep"
	lru "github.com/hashicorp/golang-lru/v2"
)

type Category string

const (
	Motors     Category = "motors"
	ESCs       Category = "escs"
	Cameras    Category = "cameras"
	Propellers Category = "propellers"
)

const (
	componentsDir = "components"
	propPrefix    = "PER3_"
	propCacheSize = 16
)

// specCategories are the categories stored as one CSV spec per file.
var specCategories = []Category{Motors, ESCs, Cameras}

type Database struct {
	fsys  fs.FS
	specs map[Category][]Spec
	props []string
	cache *lru.Cache[string, *PropTable]
}

// Open reads every CSV record under components/<category>/.
func Open(fsys fs.FS) (*Database, error) {
	cache, err := lru.New[string, *PropTable](propCacheSize)
	if err != nil {
		return nil, err
	}
	d := &Database{
		fsys:  fsys,
		specs: make(map[Category][]Spec),
		cache: cache,
	}

	for _, cat := range specCategories {
		specs, err := readSpecs(fsys, path.Join(componentsDir, string(cat)))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cat, err)
		}
		d.specs[cat] = specs
	}

	entries, err := fs.ReadDir(fsys, path.Join(componentsDir, string(Propellers)))
	if err != nil {
		return nil, fmt.Errorf("load propellers: %w", err)
	}
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || !strings.HasPrefix(n, propPrefix) || path.Ext(n) != ".dat" {
			continue
		}
		d.props = append(d.props, strings.TrimSuffix(strings.TrimPrefix(n, propPrefix), ".dat"))
	}
	sort.Strings(d.props)

	return d, nil
}

func readSpecs(fsys fs.FS, dir string) ([]Spec, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var specs []Spec
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".csv" {
			continue
		}
		spec, err := readSpec(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func readSpec(fsys fs.FS, file string) (Spec, error) {
	f, err := fsys.Open(file)
	if err != nil {
		return Spec{}, err
	}
	defer f.Close()
	return ParseSpec(strings.TrimSuffix(path.Base(file), ".csv"), f)
}

// Specs returns a copy of every record in cat, ordered by file name.
func (d *Database) Specs(cat Category) ([]Spec, error) {
	specs, ok := d.specs[cat]
	if !ok {
		return nil, fmt.Errorf("unknown category: %s", cat)
	}
	return deep.MustCopy(specs), nil
}

func (d *Database) ListCategories() []string {
	names := make([]string, 0, len(d.specs)+1)
	for cat := range d.specs {
		names = append(names, string(cat))
	}
	names = append(names, string(Propellers))
	sort.Strings(names)
	return names
}

// Propellers lists the propeller designations with performance tables.
func (d *Database) Propellers() []string {
	return append([]string(nil), d.props...)
}

func (d *Database) PropTable(name string) (*PropTable, error) {
	if t, ok := d.cache.Get(name); ok {
		return t, nil
	}
	f, err := d.fsys.Open(path.Join(componentsDir, string(Propellers), propPrefix+name+".dat"))
	if err != nil {
		return nil, fmt.Errorf("open propeller table: %w", err)
	}
	defer f.Close()

	t, err := ParsePropTable(name, f)
	if err != nil {
		return nil, err
	}
	d.cache.Add(name, t)
	return t, nil
}
