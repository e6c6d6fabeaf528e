// Package layers builds a stack of progressively finer tile layers.
//
// Given subdivision counts ordered coarse to fine, such as [1, 4, 9], the
// [Generator] creates one container node per count beneath a caller-supplied
// root. Layer 0 covers the whole map. Every cell of layer k-1 is subdivided
// again into counts[k] cells to form layer k, so layer k holds the product
// of counts[0..k] cells: 1, 4 and 36 for the example above.
//
// The containers are returned finest first, which is the order the lod
// package expects.
//
// All counts are checked before anything is built. A single count that
// cannot be laid out aborts the whole build with GENERATION_NOT_POSSIBLE and
// leaves the root untouched.
//
// # Colors
//
// With Options.Colorize set, cells are tinted as they are created: layer 0
// cycles red, green, blue and white; layer 1 cycles the same palette seeded
// with white; deeper layers shade their parent cell's color from full
// intensity toward black.
package layers
