package plantree

// NodeIndex identifies a Node within a Tree's arena. invalidIndex (-1)
// denotes no node; index 0 is the first node added, and the root is
// whichever index Root reports, not necessarily 0.
type NodeIndex int

const invalidIndex NodeIndex = -1

// TwiddleRequirement records which twiddle table a node needs materialized
// before it can be dispatched (spec §3 invariant: "twiddle tables are
// materialized before any leaf referencing them is dispatched").
type TwiddleRequirement struct {
	// Small is the length of the per-node small-twiddle table, or 0 if
	// this node needs none.
	Small int
	// Large holds the two factors of a 3-step large-twiddle table, or
	// (0, 0) if this node needs none.
	LargeN1, LargeN2 int
}

func (t TwiddleRequirement) IsZero() bool {
	return t.Small == 0 && t.LargeN1 == 0 && t.LargeN2 == 0
}

// CatalogKey identifies a leaf's kernel-catalog lookup (spec §4.1).
// Internal nodes carry the zero value.
type CatalogKey struct {
	Scheme       SchemeTag
	Length       []int
	Precision    Precision
	Placement    Placement
	InArrayType  ArrayType
	OutArrayType ArrayType
	SBRCVariant  string
	StaticDim    int
}

// Node is a single element of the plan tree (spec §3). Parent references
// are lookup-only; ownership flows from parent to children via Children,
// which the Tree arena stores by index so that Fuse-Shim rewrites can
// splice subtrees without invalidating unrelated indices.
type Node struct {
	Scheme SchemeTag

	Parent   NodeIndex
	Children []NodeIndex

	Length    []int
	InStride  []int
	OutStride []int

	Direction    Direction
	Placement    Placement
	InArrayType  ArrayType
	OutArrayType ArrayType

	// Large1D is nonzero on intermediate twiddle-applying stages of a 1D
	// large decomposition (spec §3).
	Large1D int

	Twiddle TwiddleRequirement

	// CatalogKey is meaningful only when Scheme.IsLeaf().
	CatalogKey CatalogKey

	// InputID/OutputID are resolved by the Buffer Assigner; until then
	// they hold whatever the builder set, the zero value UserIn for most
	// nodes.
	InputID  BufferIdentity
	OutputID BufferIdentity
}

// Tree is the plan tree's arena: nodes are addressed by NodeIndex rather
// than pointer, per spec §9 ("an arena keyed by node index is preferred
// because the tree is constructed once and mutated only by the Fuse-Shim
// Pass with local rewrites").
type Tree struct {
	nodes []Node
	root  NodeIndex
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{root: invalidIndex}
}

// Root returns the index of the tree's root node.
func (t *Tree) Root() NodeIndex {
	return t.root
}

// Node returns a pointer to the node at idx, allowing in-place mutation
// (used by the Fuse-Shim Pass and Buffer Assigner).
func (t *Tree) Node(idx NodeIndex) *Node {
	return &t.nodes[idx]
}

// Len returns the number of nodes currently in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Add appends a node to the arena and returns its index. The node starts
// with no parent; SetParent links it into a parent's child list. The
// first node added becomes the root until the builder records another.
func (t *Tree) Add(n Node) NodeIndex {
	n.Parent = invalidIndex
	idx := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, n)
	if t.root == invalidIndex {
		t.root = idx
	}
	return idx
}

// SetParent records parent/child linkage after both nodes exist in the
// arena (the Node Tree Builder constructs children before their parent
// knows all of them).
func (t *Tree) SetParent(child, parent NodeIndex) {
	t.nodes[child].Parent = parent
	t.nodes[parent].Children = append(t.nodes[parent].Children, child)
}

// ReplaceSubtree overwrites the node at idx and clears its children,
// leaving idx's parent linkage untouched. Used by the Fuse-Shim Pass to
// collapse a matched (producer, consumer) pair into a single fused leaf.
func (t *Tree) ReplaceSubtree(idx NodeIndex, replacement Node) {
	replacement.Parent = t.nodes[idx].Parent
	replacement.Children = nil
	t.nodes[idx] = replacement
}

// Walk visits every node in post-order (children before parent), the order
// the Executor dispatches in (spec §4.7).
func (t *Tree) Walk(visit func(NodeIndex, *Node)) {
	if t.root == invalidIndex {
		return
	}
	t.walk(t.root, visit)
}

func (t *Tree) walk(idx NodeIndex, visit func(NodeIndex, *Node)) {
	n := &t.nodes[idx]
	for _, c := range n.Children {
		t.walk(c, visit)
	}
	visit(idx, n)
}

// WalkBottomUp visits every node, leaves included, in the same post-order
// as Walk, so each node is visited only after all of its descendants — this is the order the Fuse-Shim Pass requires (spec §4.5:
// "process the tree bottom-up; a fuse may enable another fuse one level
// up"). It differs from Walk only in recommended use, not traversal order;
// it is provided separately so call sites read clearly.
func (t *Tree) WalkBottomUp(visit func(NodeIndex, *Node)) {
	t.Walk(visit)
}
