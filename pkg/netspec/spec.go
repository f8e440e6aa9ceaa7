package netspec

// Attribute markers attached to net properties.
const (
	// AttrForRefOnly marks a node that is kept for reference and must not
	// be wired on the board.
	AttrForRefOnly = "_ForRefOnly_"
	// AttrPlaceholder marks a node whose net name is deliberately left open.
	AttrPlaceholder = "_PlaceHolder_"
	// AttrDepopulated marks a node the active board variant leaves
	// unpopulated.
	AttrDepopulated = "_Depopulated_"
)

// NetProperties is the resolved net of a node. An empty Name means the node
// is a placeholder and unwired; an empty Attr means fully populated.
type NetProperties struct {
	Name string
	Attr string
}

// Placeholder reports whether the node has no net name.
func (p NetProperties) Placeholder() bool { return p.Name == "" }

// ForRefOnly reports whether the node is kept for reference only.
func (p NetProperties) ForRefOnly() bool { return p.Attr == AttrForRefOnly }

// Depopulated reports whether the node is left unpopulated by the board
// variant the specification was generated for.
func (p NetProperties) Depopulated() bool { return p.Attr == AttrDepopulated }

// Spec maps canonical nodes to their net properties. A Spec is owned by the
// run that builds it and is read-only for everyone else.
type Spec struct {
	entries map[NetNode]NetProperties
}

// NewSpec returns an empty specification.
func NewSpec() *Spec {
	return &Spec{entries: make(map[NetNode]NetProperties)}
}

// Put stores props under the canonical form of node. It returns the
// previous properties and true when an existing entry was overwritten.
func (s *Spec) Put(node NetNode, props NetProperties) (NetProperties, bool) {
	node = node.Canonical()
	prev, ok := s.entries[node]
	s.entries[node] = props
	return prev, ok
}

// Get returns the properties stored for node.
func (s *Spec) Get(node NetNode) (NetProperties, bool) {
	props, ok := s.entries[node.Canonical()]
	return props, ok
}

// Delete removes node and reports whether it was present.
func (s *Spec) Delete(node NetNode) bool {
	node = node.Canonical()
	if _, ok := s.entries[node]; !ok {
		return false
	}
	delete(s.entries, node)
	return true
}

// Len returns the number of nodes.
func (s *Spec) Len() int { return len(s.entries) }

// Nodes returns all nodes in a deterministic order.
func (s *Spec) Nodes() []NetNode {
	nodes := make([]NetNode, 0, len(s.entries))
	for n := range s.entries {
		nodes = append(nodes, n)
	}
	SortNodes(nodes)
	return nodes
}

// Names returns the set of non-empty net names.
func (s *Spec) Names() map[string]struct{} {
	names := make(map[string]struct{})
	for _, p := range s.entries {
		if p.Name != "" {
			names[p.Name] = struct{}{}
		}
	}
	return names
}

// Merge copies every entry of other into s; entries of other win. It
// returns the number of overwritten entries.
func (s *Spec) Merge(other *Spec) int {
	overwritten := 0
	for n, p := range other.entries {
		if _, ok := s.entries[n]; ok {
			overwritten++
		}
		s.entries[n] = p
	}
	return overwritten
}
