// Package text implements the `--print-ir`/`--print-block` text dumps
// (spec.md §6): a structured, YAML-marshaled rendering of one unit's HIR
// tree or the project's block graph, grounded on the teacher's
// analyzer.IRNode/IREdge/IRGraph (graph_exporter.go: a plain struct per
// node/edge, `Properties map[string]interface{}` for the open-ended bits)
// generalized from "export to a GraphExporter backend" to "marshal to
// text for a CLI flag", and on analyzer/linage's yaml-tagged model structs
// for the marshaling idiom itself.
package text

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
)

// irNode is one HIR node's --print-ir row.
type irNode struct {
	ID       uint32   `yaml:"id"`
	Kind     string   `yaml:"kind"`
	Field    string   `yaml:"field,omitempty"`
	Start    uint32   `yaml:"start"`
	End      uint32   `yaml:"end"`
	Parent   uint32   `yaml:"parent,omitempty"`
	Children []uint32 `yaml:"children,omitempty"`
	Payload  string   `yaml:"payload,omitempty"`
	Name     string   `yaml:"name,omitempty"`
	Symbol   uint32   `yaml:"symbol,omitempty"`
	Text     string   `yaml:"text,omitempty"`
}

// irDoc is the top-level --print-ir document: one unit's HIR tree.
type irDoc struct {
	Unit  uint32   `yaml:"unit"`
	Root  uint32   `yaml:"root"`
	Nodes []irNode `yaml:"nodes"`
}

// PrintIR dumps one unit's HIR tree (spec.md §6 `--print-ir`), pre-order
// from the root, interned KindID/FieldID/Ident names resolved back to text
// via interner so the dump is self-contained.
func PrintIR(tree *hir.Tree, interner *intern.Table) (string, error) {
	if tree == nil {
		return "", nil
	}
	doc := irDoc{Unit: uint32(tree.Unit), Root: uint32(tree.Root)}
	tree.Walk(tree.Root, func(n hir.Node) {
		doc.Nodes = append(doc.Nodes, irNodeFrom(n, interner))
	})
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func irNodeFrom(n hir.Node, interner *intern.Table) irNode {
	row := irNode{
		ID:       uint32(n.ID),
		Kind:     resolveOr(interner, n.KindID, "?"),
		Start:    n.Start,
		End:      n.End,
		Parent:   uint32(n.Parent),
		Children: childIDs(n.Children),
	}
	if n.FieldID != 0 {
		row.Field = resolveOr(interner, n.FieldID, "?")
	}
	switch n.Payload {
	case hir.Identifier:
		row.Payload = "identifier"
		row.Name = resolveOr(interner, n.Ident.Name, "?")
		row.Symbol = uint32(n.Ident.Symbol)
	case hir.Scope:
		row.Payload = "scope"
		row.Name = resolveOr(interner, n.ScopePay.Name, "?")
	case hir.Text:
		row.Payload = "text"
		row.Text = n.Text
	}
	return row
}

func childIDs(children []ids.HirID) []uint32 {
	if len(children) == 0 {
		return nil
	}
	out := make([]uint32, len(children))
	for i, c := range children {
		out[i] = uint32(c)
	}
	return out
}

func resolveOr(interner *intern.Table, n intern.Name, fallback string) string {
	if interner == nil {
		return fallback
	}
	if s, ok := interner.Resolve(n); ok {
		return s
	}
	return fallback
}

// blockRow is one block's --print-block row.
type blockRow struct {
	ID        uint32              `yaml:"id"`
	Kind      string              `yaml:"kind"`
	Name      string              `yaml:"name,omitempty"`
	Unit      uint32              `yaml:"unit"`
	Parent    uint32              `yaml:"parent,omitempty"`
	Children  []uint32            `yaml:"children,omitempty"`
	Relations map[string][]uint32 `yaml:"relations,omitempty"`
}

// blockDoc is the top-level --print-block document: every block the
// project graph has built so far, in allocation order.
type blockDoc struct {
	Blocks []blockRow `yaml:"blocks"`
}

// relationsShown are the relation kinds PrintBlocks lists per block; their
// mirrors (DependedBy, ContainedBy, MethodOf, HasImpl, CalledBy) are
// omitted since the dump already shows the forward edge and the parent
// link covers Contains/ContainedBy, keeping the dump from doubling every
// edge.
var relationsShown = []block.Relation{
	block.DependsOn,
	block.HasMethod,
	block.ImplFor,
	block.Calls,
}

// PrintBlocks dumps every block in tbl, annotated with its relationsShown
// edges from rel (spec.md §6 `--print-block`).
func PrintBlocks(tbl *block.Table, rel *block.RelationMap) (string, error) {
	var doc blockDoc
	tbl.Each(func(id ids.BlockID, b block.Block) {
		row := blockRow{
			ID:       uint32(id),
			Kind:     b.Kind.String(),
			Name:     b.Name,
			Unit:     uint32(b.UnitIndex),
			Parent:   uint32(b.Parent),
			Children: blockIDs(b.Children),
		}
		for _, r := range relationsShown {
			targets := rel.Get(id, r)
			if len(targets) == 0 {
				continue
			}
			if row.Relations == nil {
				row.Relations = make(map[string][]uint32)
			}
			row.Relations[r.String()] = blockIDs(targets)
		}
		doc.Blocks = append(doc.Blocks, row)
	})
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func blockIDs(ids []ids.BlockID) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

