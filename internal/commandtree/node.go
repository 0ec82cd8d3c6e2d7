package commandtree

// Node is either a *Leaf or a *Group. A nil Node, including a typed nil pointer, is skipped.
type Node interface {
	isNode()
}

// Leaf runs one shell line.
type Leaf struct {
	Line string
	// Directory, when set, is used verbatim as the working directory.
	Directory string
	// RelativeDirectory is resolved against the repository root when Directory is empty.
	RelativeDirectory string
	IgnoreError       bool
}

// Group runs its children in order after announcing Message, if any.
type Group struct {
	Message string
	// Directory becomes the ambient working directory of the children. Relative values
	// are resolved against the repository root.
	Directory string
	Children  []Node
}

func (*Leaf) isNode()  {}
func (*Group) isNode() {}

// Command builds a leaf without overrides.
func Command(line string) *Leaf {
	return &Leaf{Line: line}
}

// InDirectory returns a copy of the leaf that runs in the absolute directory.
func (leaf *Leaf) InDirectory(directory string) *Leaf {
	copied := *leaf
	copied.Directory = directory
	return &copied
}

// InRelativeDirectory returns a copy of the leaf that runs under the repository root.
func (leaf *Leaf) InRelativeDirectory(relativeDirectory string) *Leaf {
	copied := *leaf
	copied.RelativeDirectory = relativeDirectory
	return &copied
}

// IgnoringError returns a copy of the leaf whose nonzero exit is only reported.
func (leaf *Leaf) IgnoringError() *Leaf {
	copied := *leaf
	copied.IgnoreError = true
	return &copied
}

// Lines converts bare shell lines into leaves.
func Lines(lines ...string) []Node {
	nodes := make([]Node, 0, len(lines))
	for _, line := range lines {
		nodes = append(nodes, Command(line))
	}
	return nodes
}

// NewGroup builds a labeled group. An empty message produces no banner.
func NewGroup(message string, children ...Node) *Group {
	return &Group{Message: message, Children: children}
}

// Sequence builds an unlabeled group.
func Sequence(children ...Node) *Group {
	return &Group{Children: children}
}

// When returns node if condition holds and nil otherwise.
func When(condition bool, node Node) Node {
	if !condition {
		return nil
	}
	return node
}

// OptionalCommand returns a leaf for line, or nil when line is empty.
func OptionalCommand(line string) Node {
	if len(line) == 0 {
		return nil
	}
	return Command(line)
}

// IsAbsent reports whether node should be skipped during a walk.
func IsAbsent(node Node) bool {
	switch typed := node.(type) {
	case nil:
		return true
	case *Leaf:
		return typed == nil
	case *Group:
		return typed == nil
	default:
		return false
	}
}

// Leaves returns the non-nil leaves of node in execution order.
func Leaves(node Node) []*Leaf {
	var collected []*Leaf
	var visit func(current Node)
	visit = func(current Node) {
		if IsAbsent(current) {
			return
		}
		switch typed := current.(type) {
		case *Leaf:
			collected = append(collected, typed)
		case *Group:
			for _, child := range typed.Children {
				visit(child)
			}
		}
	}
	visit(node)
	return collected
}
