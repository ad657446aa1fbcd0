package position

// Rect is a rectangle in terminal cells
type Rect struct {
	X, Y          int
	Width, Height int
}

// Right returns the first column past the rectangle
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rectangle
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the cell (x, y) lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Size is the natural size of the floating content
type Size struct {
	Width, Height int
}

// Placement is the side of the anchor the panel ended up on
type Placement string

const (
	BottomStart Placement = "bottom-start"
	TopStart    Placement = "top-start"
)

// Preference values accepted in Options.Position
const (
	PreferAuto   = ""
	PreferTop    = "top"
	PreferBottom = "bottom"
)

// ValidPreference reports whether p is a known placement preference
func ValidPreference(p string) bool {
	return p == PreferAuto || p == PreferTop || p == PreferBottom
}

// Options controls a placement computation
type Options struct {
	Viewport Rect
	Position string
}

// Result is where to draw the panel
type Result struct {
	X, Y      int
	Width     int
	Height    int // rows actually used: min(content, MaxHeight)
	MaxHeight int // rows available on the chosen side
	Placement Placement
	Strategy  Strategy
}

// Rect returns the panel rectangle
func (r Result) Rect() Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Compute places content of the given size next to anchor inside the viewport.
// The panel prefers the bottom side (top when Position is "top"), flips only when
// not pinned and the other side has more room, and is shifted along the x axis
// to stay visible. Width always matches the anchor.
func Compute(anchor Rect, size Size, opts Options) Result {
	vp := opts.Viewport
	below := max(0, vp.Bottom()-anchor.Bottom())
	above := max(0, anchor.Y-vp.Y)

	placement := BottomStart
	if opts.Position == PreferTop {
		placement = TopStart
	}
	pinned := opts.Position == PreferTop || opts.Position == PreferBottom

	if !pinned {
		room, other := below, above
		if placement == TopStart {
			room, other = above, below
		}
		if size.Height > room && other > room {
			placement = flip(placement)
		}
	}

	res := Result{Placement: placement, Width: anchor.Width}
	if placement == BottomStart {
		res.MaxHeight = below
		res.Height = min(size.Height, below)
		res.Y = anchor.Bottom()
	} else {
		res.MaxHeight = above
		res.Height = min(size.Height, above)
		res.Y = anchor.Y - res.Height
	}

	res.X = anchor.X
	if res.X+res.Width > vp.Right() {
		res.X = vp.Right() - res.Width
	}
	if res.X < vp.X {
		res.X = vp.X
	}
	return res
}

func flip(p Placement) Placement {
	if p == BottomStart {
		return TopStart
	}
	return BottomStart
}
