package tiling

import (
	"math"

	"github.com/matzehuels/lodgrid/pkg/errors"
)

// Method is the strategy used to lay out a cell count inside a square.
type Method int

const (
	// Impossible means the count has no supported layout.
	Impossible Method = iota
	// Even lays out a perfect-square count as a side×side grid.
	Even
	// BorderPlusCenter lays out a one-cell ring plus an even center block.
	BorderPlusCenter
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case Even:
		return "even"
	case BorderPlusCenter:
		return "border+center"
	default:
		return "impossible"
	}
}

// minBorder is the smallest ring: the 8 cells around a 3×3 block's center.
const minBorder = 8

// Resolve picks the layout method for n cells. Perfect squares, 1 included,
// are Even. Otherwise the smallest border b = 8, 12, 16, … with b < n and
// n-b a perfect square makes it BorderPlusCenter. Anything else, including
// n < 1, is Impossible.
func Resolve(n int) Method {
	if isPerfectSquare(n) {
		return Even
	}
	if BorderSize(n) > 0 {
		return BorderPlusCenter
	}
	return Impossible
}

// IsGenerable reports whether n cells can be laid out.
func IsGenerable(n int) bool {
	return Resolve(n) != Impossible
}

// BorderSize returns the minimal ring size for n, or 0 when no ring
// decomposition exists.
//
// The smallest ring leaves the largest center, so the search walks center
// sides down from isqrt(n-8). Squares are 0 or 1 mod 4 and rings are
// multiples of 4, so n mod 4 of 2 or 3 never decomposes and otherwise a
// match is at most two steps away.
func BorderSize(n int) int {
	if n <= minBorder || n%4 >= 2 {
		return 0
	}
	for k := isqrt(n - minBorder); k >= 1; k-- {
		if b := n - k*k; b%4 == 0 {
			return b
		}
	}
	return 0
}

// Plan is the resolved layout of one cell count.
type Plan struct {
	Method Method `json:"method"`
	Cells  int    `json:"cells"`
	// Border is the number of ring cells; 0 for Even.
	Border int `json:"border"`
	// Center is the number of cells in the even center block.
	Center int `json:"center"`
	// BorderSide is the side of the square grid the ring is cut from.
	BorderSide int `json:"border_side,omitempty"`
	// CenterSide is the side of the center block.
	CenterSide int `json:"center_side"`
}

// PlanFor resolves n and returns the full decomposition.
func PlanFor(n int) (Plan, error) {
	if isPerfectSquare(n) {
		return Plan{Method: Even, Cells: n, Center: n, CenterSide: isqrt(n)}, nil
	}
	b := BorderSize(n)
	if b == 0 {
		return Plan{Method: Impossible, Cells: n}, errors.New(errors.ErrCodeSubdivisionImpossible,
			"%d cells cannot be laid out as an even grid or a border ring around one", n)
	}
	return Plan{
		Method:     BorderPlusCenter,
		Cells:      n,
		Border:     b,
		Center:     n - b,
		BorderSide: b/4 + 1,
		CenterSide: isqrt(n - b),
	}, nil
}

func isPerfectSquare(n int) bool {
	if n < 1 {
		return false
	}
	r := isqrt(n)
	return r*r == n
}

// isqrt returns floor(sqrt(n)) for n >= 0, corrected for float rounding.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	// Divide instead of squaring; (r+1)*(r+1) overflows near math.MaxInt.
	for r > n/r {
		r--
	}
	for r+1 <= n/(r+1) {
		r++
	}
	return r
}
