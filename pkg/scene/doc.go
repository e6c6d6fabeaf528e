// Package scene is the minimal scene graph the grid generator writes into.
//
// A [Node] carries a world position, a scale, a rotation and an optional
// [Renderable]. Nodes form a tree through [Node.AddChild]; the generator only
// ever adds nodes beneath the root it is handed and never touches anything
// outside that subtree.
//
// Renderables are opaque to the generator except for one optional
// capability: a renderable that also implements [Paintable] can be tinted,
// and its tint is read back when coloring the next, finer layer.
//
// [Prototype] describes the tile model every generated cell instantiates:
// its extent, its native scale and how to build its renderable.
package scene
