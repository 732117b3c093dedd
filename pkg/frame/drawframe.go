// Copyright 2020-2026 The Playout Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package frame

// Kind tags a DrawFrame node's variant.
type Kind int

// The three DrawFrame variants: the zero value is the "no content at all"
// frame (distinct from Empty(), the canonical empty list — see
// DrawFrame.Equal).
const (
	KindEmpty Kind = iota
	KindLeaf
	KindList
)

// DrawFrame is the recursive composition tree: an internal node is either
// empty, a single Const leaf, or an ordered list of children. Every node
// carries a Transform.
type DrawFrame struct {
	Kind      Kind
	Transform Transform
	Leaf      Const
	Children  []DrawFrame
}

// Visitor is implemented by anything that walks a DrawFrame tree: the
// audio mixer and the image mixer.
type Visitor interface {
	Push(Transform)
	Visit(Const)
	Pop()
}

// NewLeaf wraps a single Const frame with the identity transform.
func NewLeaf(c Const) DrawFrame {
	return DrawFrame{Kind: KindLeaf, Transform: Default(), Leaf: c}
}

// Empty returns the canonical empty frame: an empty child list. It is
// NOT equal to the zero DrawFrame{} (which carries no children at all and
// is considered a different, "no content" variant).
func Empty() DrawFrame {
	return DrawFrame{Kind: KindList, Transform: Default(), Children: []DrawFrame{}}
}

// Over lists a under b (b drawn on top of a): [a, b].
func Over(a, b DrawFrame) DrawFrame {
	return DrawFrame{Kind: KindList, Transform: Default(), Children: []DrawFrame{a, b}}
}

// Mask composes a fill+key pair into [key(is_key=true), fill].
func Mask(fill, key DrawFrame) DrawFrame {
	key.Transform.Image.IsKey = true
	return DrawFrame{Kind: KindList, Transform: Default(), Children: []DrawFrame{key, fill}}
}

// Push wraps inner under a fresh node with the identity transform.
func Push(inner DrawFrame) DrawFrame {
	return PushTransform(inner, Default())
}

// PushTransform wraps inner under a fresh node carrying the given
// transform — used by the stage to attach a layer's tweened transform.
func PushTransform(inner DrawFrame, t Transform) DrawFrame {
	return DrawFrame{Kind: KindList, Transform: t, Children: []DrawFrame{inner}}
}

// Pop strips a node's outer transform (resets it to identity), leaving its
// content unchanged. Used by routes to unwrap a layer's pre-composition
// transform before fan-out.
func Pop(df DrawFrame) DrawFrame {
	df.Transform = Default()
	return df
}

// Still zeroes a frame's audio volume, so it can be held as a frozen
// preview without contributing to the audio mix.
func Still(df DrawFrame) DrawFrame {
	df.Transform.Audio.Volume = 0
	return df
}

// IsNothing reports whether this node carries no renderable content: the
// zero-value "no content" frame, or an empty list.
func (df DrawFrame) IsNothing() bool {
	switch df.Kind {
	case KindEmpty:
		return true
	case KindList:
		return len(df.Children) == 0
	default:
		return false
	}
}

// Accept walks the tree: push this node's transform, visit children (or
// the leaf), then pop.
func (df DrawFrame) Accept(v Visitor) {
	v.Push(df.Transform)
	switch df.Kind {
	case KindLeaf:
		v.Visit(df.Leaf)
	case KindList:
		for _, child := range df.Children {
			child.Accept(v)
		}
	}
	v.Pop()
}

// WithLayerDepth returns a copy of df with its outer image transform's
// layer_depth set — the mixer does this to every top-level input before
// handing it to the image_mixer.
func (df DrawFrame) WithLayerDepth(depth int) DrawFrame {
	df.Transform.Image.LayerDepth = depth
	return df
}

// Equal performs a structural comparison: same kind, same transform,
// leaves equal by identity, children equal recursively and in order.
func (df DrawFrame) Equal(o DrawFrame) bool {
	if df.Kind != o.Kind {
		return false
	}
	if df.Transform != o.Transform {
		return false
	}
	switch df.Kind {
	case KindLeaf:
		return df.Leaf.Equal(o.Leaf)
	case KindList:
		if len(df.Children) != len(o.Children) {
			return false
		}
		for i := range df.Children {
			if !df.Children[i].Equal(o.Children[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
