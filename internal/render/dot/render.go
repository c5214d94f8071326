package dot

import (
	"sort"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/project"
)

// emptyGraphDot is what Render returns when nothing survives filtering,
// matching llmcc-core's graph_render.rs EMPTY_GRAPH_DOT constant.
const emptyGraphDot = "digraph DesignGraph {\n}\n"

// architectureKinds restricts the rendered graph to the block kinds
// llmcc-collect's types.rs ARCHITECTURE_KINDS names: types and free
// functions are the building blocks of an architecture diagram; methods,
// fields, variables, consts and call sub-blocks are implementation detail
// the rendering intentionally omits.
var architectureKinds = map[block.Kind]bool{
	block.Class:     true,
	block.Struct:    true,
	block.Trait:     true,
	block.Interface: true,
	block.Enum:      true,
	block.Func:      true,
}

type renderNode struct {
	id     ids.BlockID
	name   string
	kind   block.Kind
	path   string
	crate  string
	module string
	file   string
}

type renderEdge struct{ from, to ids.BlockID }

// edgeT is a directed edge between two comparable keys, used both at the
// per-block level (K = ids.BlockID, for --depth 3/file) and at the
// per-group level (K = string, for the aggregated depths), so
// pruneOrphans/reduceTransitive need only be written once.
type edgeT[K comparable] struct{ from, to K }

// Render produces the DOT document for g, per spec.md §6's "DOT output
// (when --graph)" contract: a `digraph DesignGraph { ... }` document with
// subgraph clusters per group, nK nodes, and edges after transitive
// reduction and orphan pruning.
func Render(g *project.Graph, opts Options) string {
	nodes, edges := collectArchitecture(g)
	if len(nodes) == 0 {
		return emptyGraphDot
	}
	if opts.PagerankTopK > 0 {
		nodes, edges = topByPageRank(nodes, edges, opts.PagerankTopK)
	}
	if opts.Depth.IsAggregated() {
		return renderAggregated(nodes, edges, opts)
	}
	return renderDetail(nodes, edges, opts)
}

// collectArchitecture walks every block in g.Blocks kept by
// architectureKinds and every DependsOn edge between two such blocks,
// attaching each node's (crate, module, file, path) from its owning
// unit's modpath.Unit.
func collectArchitecture(g *project.Graph) ([]renderNode, []renderEdge) {
	units := make(map[ids.UnitIndex]*compilectx.Unit)
	for _, u := range g.Units() {
		units[u.Index] = u
	}

	var nodes []renderNode
	included := make(map[ids.BlockID]bool)
	g.Blocks.Each(func(id ids.BlockID, b block.Block) {
		if !architectureKinds[b.Kind] {
			return
		}
		n := renderNode{id: id, name: b.Name, kind: b.Kind}
		if u, ok := units[b.UnitIndex]; ok {
			n.path = u.Mod.File
			if n.path == "" {
				n.path = u.Path
			}
			n.crate = u.Mod.Project
			n.module = u.Mod.Module
			n.file = baseName(n.path)
		}
		nodes = append(nodes, n)
		included[id] = true
	})

	var edges []renderEdge
	seen := make(map[edgeT[ids.BlockID]]bool)
	for _, n := range nodes {
		for _, to := range g.Relations.Get(n.id, block.DependsOn) {
			if to == n.id || !included[to] {
				continue
			}
			key := edgeT[ids.BlockID]{n.id, to}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, renderEdge{from: n.id, to: to})
		}
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	return nodes, edges
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, "/\\"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// pruneOrphans drops any id with no edge touching it, the degree-0 case of
// llmcc-core's connected-component orphan pruning (a singleton component
// with no edges is dropped; every other component, including a connected
// pair, is kept in full).
func pruneOrphans[K comparable](nodeIDs []K, edges []edgeT[K]) []K {
	degree := make(map[K]bool, len(edges)*2)
	for _, e := range edges {
		degree[e.from] = true
		degree[e.to] = true
	}
	out := make([]K, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if degree[id] {
			out = append(out, id)
		}
	}
	return out
}

// reduceTransitive drops an edge (a,b) whenever a path from a to b exists
// that doesn't use that edge directly, ported from graph_render.rs's
// reduce_transitive_edges/has_alternative_path (DFS per edge, since the
// graphs this renders are small enough that the naive O(E*(V+E)) check
// never matters in practice).
func reduceTransitive[K comparable](edges []edgeT[K]) []edgeT[K] {
	if len(edges) == 0 {
		return nil
	}
	adjacency := make(map[K][]K)
	for _, e := range edges {
		adjacency[e.from] = append(adjacency[e.from], e.to)
	}

	var minimal []edgeT[K]
	for _, e := range edges {
		if !hasAlternatePath(e, adjacency) {
			minimal = append(minimal, e)
		}
	}
	return minimal
}

func hasAlternatePath[K comparable](skip edgeT[K], adjacency map[K][]K) bool {
	visited := make(map[K]bool)
	var stack []K
	for _, n := range adjacency[skip.from] {
		if n == skip.to {
			continue
		}
		stack = append(stack, n)
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == skip.to {
			return true
		}
		for _, n := range adjacency[cur] {
			if cur == skip.from && n == skip.to {
				continue
			}
			if !visited[n] {
				stack = append(stack, n)
			}
		}
	}
	return false
}

func toSet[K comparable](ks []K) map[K]bool {
	out := make(map[K]bool, len(ks))
	for _, k := range ks {
		out[k] = true
	}
	return out
}

func quoted(s string) string { return `"` + escapeLabel(s) + `"` }

func blockNodeID(id ids.BlockID) string {
	return "n" + strconv.FormatUint(uint64(id), 10)
}

// --- aggregated depths (project/package/module) ---

// group is one node in an aggregated render: every block whose node
// belongs to the same (crate, module) pair per opts.Depth collapses into
// one group node.
type group struct {
	key   string
	label string
	crate string
}

func groupFor(n renderNode, depth Depth, shortLabels bool) group {
	switch depth {
	case DepthProject:
		return group{key: "project\x00" + n.crate, label: orDefault(n.crate, "project"), crate: n.crate}
	case DepthPackage:
		return group{key: "crate\x00" + n.crate, label: orDefault(n.crate, "crate"), crate: n.crate}
	default: // DepthModule
		key := n.crate + "\x00" + n.module
		label := key
		if n.module == "" {
			label = n.crate
		} else if shortLabels {
			label = lastSegment(n.module)
		} else if n.crate != "" {
			label = n.crate + "::" + n.module
		} else {
			label = n.module
		}
		return group{key: key, label: label, crate: n.crate}
	}
}

func lastSegment(s string) string {
	parts := strings.Split(s, ".")
	return parts[len(parts)-1]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func renderAggregated(nodes []renderNode, edges []renderEdge, opts Options) string {
	groups := make(map[string]group)
	nodeGroup := make(map[ids.BlockID]string, len(nodes))
	counts := make(map[string]int)
	var order []string
	for _, n := range nodes {
		gr := groupFor(n, opts.Depth, opts.ShortLabels)
		nodeGroup[n.id] = gr.key
		if _, ok := groups[gr.key]; !ok {
			groups[gr.key] = gr
			order = append(order, gr.key)
		}
		counts[gr.key]++
	}

	var gedges []edgeT[string]
	seen := make(map[edgeT[string]]bool)
	for _, e := range edges {
		fk, tk := nodeGroup[e.from], nodeGroup[e.to]
		if fk == "" || tk == "" || fk == tk {
			continue
		}
		key := edgeT[string]{fk, tk}
		if seen[key] {
			continue
		}
		seen[key] = true
		gedges = append(gedges, key)
	}

	survivors := pruneOrphans(order, gedges)
	if len(survivors) == 0 {
		return emptyGraphDot
	}
	reduced := gedges
	if !opts.NoReduce {
		reduced = reduceTransitive(gedges)
	}
	survivorSet := toSet(survivors)
	var finalEdges []edgeT[string]
	for _, e := range reduced {
		if survivorSet[e.from] && survivorSet[e.to] {
			finalEdges = append(finalEdges, e)
		}
	}
	sort.Strings(survivors)
	sort.Slice(finalEdges, func(i, j int) bool {
		if finalEdges[i].from != finalEdges[j].from {
			return finalEdges[i].from < finalEdges[j].from
		}
		return finalEdges[i].to < finalEdges[j].to
	})

	const root = "DesignGraph"
	graph := gographviz.NewGraph()
	_ = graph.SetName(root)
	_ = graph.SetDir(true)

	if opts.ClusterByCrate && opts.Depth == DepthModule {
		byCrate := make(map[string][]string)
		var crateOrder []string
		for _, key := range survivors {
			crate := groups[key].crate
			if _, ok := byCrate[crate]; !ok {
				crateOrder = append(crateOrder, crate)
			}
			byCrate[crate] = append(byCrate[crate], key)
		}
		sort.Strings(crateOrder)
		for _, crate := range crateOrder {
			cluster := "cluster_" + sanitizeID(crate)
			_ = graph.AddSubGraph(root, cluster, map[string]string{"label": quoted(orDefault(crate, "(root)"))})
			keys := byCrate[crate]
			sort.Strings(keys)
			for _, key := range keys {
				addGroupNode(graph, cluster, groups[key], counts[key])
			}
		}
	} else {
		for _, key := range survivors {
			addGroupNode(graph, root, groups[key], counts[key])
		}
	}

	for _, e := range finalEdges {
		_ = graph.AddEdge(groupNodeID(e.from), groupNodeID(e.to), true, nil)
	}

	return graph.String()
}

func addGroupNode(g *gographviz.Graph, parent string, gr group, count int) {
	label := gr.label
	if count > 1 {
		label = label + " (" + strconv.Itoa(count) + ")"
	}
	_ = g.AddNode(parent, groupNodeID(gr.key), map[string]string{"label": quoted(label)})
}

func groupNodeID(key string) string { return "n" + sanitizeID(key) }

// --- file-level detail (Depth.File) ---

type pathSeg struct{ name, kind string }

// componentTree mirrors llmcc-dot's detail.rs ComponentTree: a nested
// name->(kind,subtree) map plus the nodes living directly at this level,
// built by inserting each node at its (crate, module, file) path.
type componentTree struct {
	children map[string]*componentTree
	order    []string
	nodes    []renderNode
}

func newComponentTree() *componentTree {
	return &componentTree{children: make(map[string]*componentTree)}
}

func (c *componentTree) insert(path []pathSeg, n renderNode) {
	if len(path) == 0 {
		c.nodes = append(c.nodes, n)
		return
	}
	head := path[0]
	child, ok := c.children[head.name]
	if !ok {
		child = newComponentTree()
		c.children[head.name] = child
		c.order = append(c.order, head.name)
	}
	child.insert(path[1:], n)
}

func renderDetail(nodes []renderNode, edges []renderEdge, opts Options) string {
	nodeIDs := make([]ids.BlockID, len(nodes))
	for i, n := range nodes {
		nodeIDs[i] = n.id
	}
	edgeTs := make([]edgeT[ids.BlockID], len(edges))
	for i, e := range edges {
		edgeTs[i] = edgeT[ids.BlockID]{e.from, e.to}
	}

	survivors := pruneOrphans(nodeIDs, edgeTs)
	if len(survivors) == 0 {
		return emptyGraphDot
	}
	reduced := edgeTs
	if !opts.NoReduce {
		reduced = reduceTransitive(edgeTs)
	}
	survivorSet := toSet(survivors)
	var finalEdges []edgeT[ids.BlockID]
	for _, e := range reduced {
		if survivorSet[e.from] && survivorSet[e.to] {
			finalEdges = append(finalEdges, e)
		}
	}
	sort.Slice(finalEdges, func(i, j int) bool {
		if finalEdges[i].from != finalEdges[j].from {
			return finalEdges[i].from < finalEdges[j].from
		}
		return finalEdges[i].to < finalEdges[j].to
	})

	byID := make(map[ids.BlockID]renderNode, len(nodes))
	for _, n := range nodes {
		byID[n.id] = n
	}

	tree := newComponentTree()
	for _, id := range survivors {
		n := byID[id]
		var path []pathSeg
		if n.crate != "" {
			path = append(path, pathSeg{n.crate, "crate"})
		}
		if n.module != "" {
			path = append(path, pathSeg{n.module, "module"})
		}
		if n.file != "" {
			path = append(path, pathSeg{n.file, "file"})
		}
		tree.insert(path, n)
	}

	const root = "DesignGraph"
	graph := gographviz.NewGraph()
	_ = graph.SetName(root)
	_ = graph.SetDir(true)

	renderTree(graph, root, tree, "")

	for _, e := range finalEdges {
		_ = graph.AddEdge(blockNodeID(e.from), blockNodeID(e.to), true, nil)
	}

	return graph.String()
}

// renderTree recursively renders tree as nested subgraph clusters, one per
// crate/module/file path segment, sorted for deterministic output (spec.md
// §8's "Deterministic rendering" property), grounded on detail.rs's
// render_tree_recursive.
func renderTree(g *gographviz.Graph, parent string, tree *componentTree, prefix string) {
	names := append([]string(nil), tree.order...)
	sort.Strings(names)
	for _, name := range names {
		child := tree.children[name]
		cluster := "cluster_" + sanitizeID(prefix+name)
		_ = g.AddSubGraph(parent, cluster, map[string]string{"label": quoted(name)})
		renderTree(g, cluster, child, prefix+name+"_")
	}

	sorted := append([]renderNode(nil), tree.nodes...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].path != sorted[j].path {
			return sorted[i].path < sorted[j].path
		}
		if sorted[i].name != sorted[j].name {
			return sorted[i].name < sorted[j].name
		}
		return sorted[i].id < sorted[j].id
	})
	for _, n := range sorted {
		attrs := map[string]string{"label": quoted(n.name)}
		if n.path != "" {
			attrs["full_path"] = quoted(n.path)
		}
		if shape := shapeForKind(n.kind.String()); shape != "" {
			attrs["shape"] = shape
		}
		_ = g.AddNode(parent, blockNodeID(n.id), attrs)
	}
}
