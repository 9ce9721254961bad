package mass

import (
	"sort"
	"strings"

	"github.com/san-kum/uavsizer/internal/geometry"
)

// Node is one entry of the aircraft component tree. Assemblies have a
// nil Component and only children.
type Node struct {
	Name      string
	Component Component
	Children  []*Node
}

func NewNode(name string, c Component, children ...*Node) *Node {
	return &Node{Name: name, Component: c, Children: children}
}

func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Walk visits every node depth first with its slash-separated path.
func (n *Node) Walk(fn func(path string, n *Node)) {
	n.walk("", fn)
}

func (n *Node) walk(prefix string, fn func(string, *Node)) {
	p := n.Name
	if prefix != "" {
		p = prefix + "/" + n.Name
	}
	fn(p, n)
	for _, c := range n.Children {
		c.walk(p, fn)
	}
}

type Item struct {
	Path   string        `json:"path" msgpack:"path"`
	Kind   Kind          `json:"kind" msgpack:"kind"`
	Weight float64       `json:"weight" msgpack:"weight"`
	CG     geometry.Vec3 `json:"cg" msgpack:"cg"`
}

type Summary struct {
	Total  float64          `json:"total" msgpack:"total"`
	CG     geometry.Vec3    `json:"cg" msgpack:"cg"`
	ByKind map[Kind]float64 `json:"by_kind" msgpack:"by_kind"`
	Items  []Item           `json:"items" msgpack:"items"`
}

// Aggregate walks the tree, skipping zero-mass components, and returns
// the mass breakdown and the mass-weighted centre of gravity.
func Aggregate(root *Node) Summary {
	s := Summary{ByKind: make(map[Kind]float64)}
	var moment geometry.Vec3
	root.Walk(func(path string, n *Node) {
		if n.Component == nil {
			return
		}
		w := n.Component.Weight()
		if w == 0 {
			return
		}
		cg := n.Component.CentreOfGravity()
		s.Items = append(s.Items, Item{Path: path, Kind: n.Component.Kind(), Weight: w, CG: cg})
		s.ByKind[n.Component.Kind()] += w
		s.Total += w
		moment = moment.Add(cg.Scale(w))
	})
	if s.Total > 0 {
		s.CG = moment.Scale(1 / s.Total)
	}
	return s
}

// Kinds returns the kinds present, sorted.
func (s Summary) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Find returns the items whose path contains sub.
func (s Summary) Find(sub string) []Item {
	var out []Item
	for _, it := range s.Items {
		if strings.Contains(it.Path, sub) {
			out = append(out, it)
		}
	}
	return out
}
