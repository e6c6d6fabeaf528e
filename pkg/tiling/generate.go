package tiling

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/paint"
)

// EvenCenterCorrection is subtracted from the center block's scale
// multiplier when the block has an even side. It is an empirical fit, not a
// closed form, and makes even center blocks sit inside the ring.
const EvenCenterCorrection = 0.15

// TileSpec is the computed placement of one cell.
type TileSpec struct {
	// Index is the cell's position in the generated sequence.
	Index int `json:"index"`
	// GridIndex is the row-major slot the cell occupies in the grid it was
	// placed on. Ring cells skip interior slots.
	GridIndex int       `json:"grid_index"`
	Position  r3.Vec    `json:"position"`
	Scale     r3.Vec    `json:"scale"`
	Color     *paint.RGB `json:"color,omitempty"`
	// Ring is true for cells of a border ring.
	Ring bool `json:"ring,omitempty"`
}

// Generate lays out ctx.Cells cells with method m. Border cells come before
// center cells. It fails with SUBDIVISION_IMPOSSIBLE when m cannot produce
// exactly ctx.Cells cells.
func Generate(ctx Context, m Method) ([]TileSpec, error) {
	if err := checkCells(ctx); err != nil {
		return nil, err
	}
	plan, err := PlanFor(ctx.Cells)
	if err != nil || plan.Method != m {
		return nil, errors.New(errors.ErrCodeSubdivisionImpossible,
			"%d cells cannot be laid out with method %s", ctx.Cells, m)
	}
	return layout(ctx, plan), nil
}

// GenerateAuto resolves the method for ctx.Cells and generates.
func GenerateAuto(ctx Context) ([]TileSpec, error) {
	if err := checkCells(ctx); err != nil {
		return nil, err
	}
	plan, err := PlanFor(ctx.Cells)
	if err != nil {
		return nil, err
	}
	return layout(ctx, plan), nil
}

func checkCells(ctx Context) error {
	if ctx.Cells < 1 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "cell count must be positive, got %d", ctx.Cells)
	}
	return nil
}

func layout(ctx Context, plan Plan) []TileSpec {
	if plan.Method == Even {
		return evenLayout(ctx, plan.CenterSide, ctx.TileScale, ctx.Cells, nil)
	}
	return borderLayout(ctx, plan)
}

func evenLayout(ctx Context, side int, ts r3.Vec, count int, specs []TileSpec) []TileSpec {
	for i := 0; i < count; i++ {
		specs = append(specs, cellAt(ctx, side, i, ts, len(specs)))
	}
	return specs
}

func borderLayout(ctx Context, plan Plan) []TileSpec {
	side := plan.BorderSide
	slots := side * side
	specs := make([]TileSpec, 0, plan.Cells)

	for i := 0; ; i++ {
		slot := i + ringOffset(i, side)
		if slot >= slots {
			break
		}
		spec := cellAt(ctx, side, slot, ctx.TileScale, len(specs))
		spec.Ring = true
		specs = append(specs, spec)
	}

	centerScale := r3.Scale(CenterMultiplier(side, plan.CenterSide), ctx.TileScale)
	return evenLayout(ctx, plan.CenterSide, centerScale, plan.Center, specs)
}

// ringOffset is the number of interior slots skipped before step i when
// walking the ring of a side×side grid in row-major order.
func ringOffset(i, side int) int {
	inner := side - 2
	off := ((1 + i - side) / 2) * inner
	return min(max(off, 0), inner*inner)
}

// CenterMultiplier is the factor applied to the ring's tile scale to obtain
// the center block's tile scale.
func CenterMultiplier(borderSide, centerSide int) float64 {
	k := 1 - 2/float64(borderSide)
	if centerSide%2 == 0 {
		k -= EvenCenterCorrection
	}
	return k
}

// cellAt places slot i of a side×side grid scaled by ts around ctx.Center.
// The grid's origin slot sits -side/2 cells from the center (integer
// division); even sides are shifted half a cell so the grid is centered.
func cellAt(ctx Context, side, i int, ts r3.Vec, index int) TileSpec {
	half := -side / 2
	off := r3.Vec{
		X: float64(half+i%side) * ts.X,
		Z: float64(half+i/side) * ts.Z,
	}
	if side%2 == 0 {
		off.X += ts.X / 2
		off.Z += ts.Z / 2
	}
	return TileSpec{
		Index:     index,
		GridIndex: i,
		Position:  r3.Add(ctx.Center, mulElem(off, ctx.BaseDimensions)),
		Scale:     mulElem(ctx.NativeScale, ts),
	}
}
