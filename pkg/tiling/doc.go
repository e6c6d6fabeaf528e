// Package tiling subdivides a square area into cells.
//
// # Methods
//
// [Resolve] decides how a cell count n can be laid out:
//
//   - [Even]: n is a perfect square and becomes a √n×√n grid.
//   - [BorderPlusCenter]: n = b + c where b is the smallest ring size
//     (8, 12, 16, …, below n) leaving a perfect square c. The b ring cells
//     are the perimeter of a (b/4+1)-wide grid; the c center cells form an
//     even grid at a reduced scale.
//   - [Impossible]: neither applies. 2, 3, 5, 6, 7, 8, 10 and 11 are the
//     smallest such counts.
//
// # Layout
//
// [Generate] turns a [Context] into an ordered slice of [TileSpec]. Cells are
// emitted row-major in the x/z plane, ring cells first. Generation is pure:
// the same context always yields the same cells.
//
//	ctx := tiling.NewContext(9, r3.Vec{}, scene.UnitTile(), 2)
//	specs, err := tiling.Generate(ctx, tiling.Resolve(9))
package tiling
