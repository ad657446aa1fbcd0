package position

// Strategy says which coordinate space a Result is expressed in
type Strategy int

const (
	// Fixed coordinates are screen cells
	Fixed Strategy = iota
	// Absolute coordinates are relative to the nearest positioning context
	Absolute
)

func (s Strategy) String() string {
	if s == Absolute {
		return "absolute"
	}
	return "fixed"
}

// Node is an element of the host layout tree
type Node interface {
	Bounds() Rect // screen cells
	Parent() Node
	IsPositioningContext() bool
}

// Box is a plain Node
type Box struct {
	Rect    Rect
	Up      Node
	Context bool
}

func (b *Box) Bounds() Rect               { return b.Rect }
func (b *Box) IsPositioningContext() bool { return b.Context }

// Parent returns the enclosing node, nil at the root
func (b *Box) Parent() Node {
	if b.Up == nil {
		return nil
	}
	return b.Up
}

// StrategyFor walks up from n looking for a node marked as a positioning
// context. It returns Absolute and that container when one is found.
func StrategyFor(n Node) (Strategy, Node) {
	if n == nil {
		return Fixed, nil
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.IsPositioningContext() {
			return Absolute, p
		}
	}
	return Fixed, nil
}

// Place computes the panel position for anchor, choosing the strategy from
// its ancestors. Absolute results are translated to the container origin.
func Place(anchor Node, size Size, opts Options) Result {
	res := Compute(anchor.Bounds(), size, opts)
	strategy, container := StrategyFor(anchor)
	res.Strategy = strategy
	if strategy == Absolute {
		origin := container.Bounds()
		res.X -= origin.X
		res.Y -= origin.Y
	}
	return res
}

// ToScreen converts a result back to screen cells
func ToScreen(anchor Node, res Result) Rect {
	r := res.Rect()
	if res.Strategy != Absolute {
		return r
	}
	if _, container := StrategyFor(anchor); container != nil {
		origin := container.Bounds()
		r.X += origin.X
		r.Y += origin.Y
	}
	return r
}
