package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy.
// Leaves are objects themselves; a single object is stored in both children.
type BVHNode struct {
	notSampleable
	Left  Hittable
	Right Hittable
	box   core.AABB // Union of the children's boxes, cached at construction
}

// boxedObject pairs an object with its bounding box for sorting
type boxedObject struct {
	object Hittable
	box    core.AABB
}

// NewBVHNode builds a BVH over objects. The split axis of every node is drawn from sampler.
// The caller's slice is not reordered. Returns ErrNoBoundingBox if any object cannot be bounded.
func NewBVHNode(objects []Hittable, time0, time1 float64, sampler core.Sampler) (*BVHNode, error) {
	if len(objects) == 0 {
		return nil, fmt.Errorf("empty object list: %w", ErrNoBoundingBox)
	}

	// Fetch every box once up front
	boxed := make([]boxedObject, len(objects))
	for i, object := range objects {
		box, ok := object.BoundingBox(time0, time1)
		if !ok {
			return nil, fmt.Errorf("object %d (%T): %w", i, object, ErrNoBoundingBox)
		}
		boxed[i] = boxedObject{object: object, box: box}
	}

	return buildBVHNode(boxed, sampler), nil
}

// buildBVHNode recursively splits the objects at the median of a random axis
func buildBVHNode(objects []boxedObject, sampler core.Sampler) *BVHNode {
	axis := core.RandomInt(sampler, 0, 2)
	node := &BVHNode{}

	var leftBox, rightBox core.AABB
	switch len(objects) {
	case 1:
		node.Left, node.Right = objects[0].object, objects[0].object
		leftBox, rightBox = objects[0].box, objects[0].box
	case 2:
		first, second := objects[0], objects[1]
		if !(first.box.Min.Axis(axis) < second.box.Min.Axis(axis)) {
			first, second = second, first
		}
		node.Left, node.Right = first.object, second.object
		leftBox, rightBox = first.box, second.box
	default:
		sort.Slice(objects, func(i, j int) bool {
			return objects[i].box.Min.Axis(axis) < objects[j].box.Min.Axis(axis)
		})

		mid := len(objects) / 2
		left := buildBVHNode(objects[:mid], sampler)
		right := buildBVHNode(objects[mid:], sampler)
		node.Left, node.Right = left, right
		leftBox, rightBox = left.box, right.box
	}

	node.box = core.SurroundingBox(leftBox, rightBox)
	return node
}

// Hit tests the node's box, then the left child, then the right child with the
// left hit distance as the new upper bound
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if !n.box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax, sampler)
	if hitLeft {
		tMax = leftHit.T
	}

	if rightHit, hitRight := n.Right.Hit(ray, tMin, tMax, sampler); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the cached box
func (n *BVHNode) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return n.box, true
}

// Depth returns the height of the tree rooted at this node
func (n *BVHNode) Depth() int {
	depth := 0
	for _, child := range []Hittable{n.Left, n.Right} {
		if node, ok := child.(*BVHNode); ok {
			depth = max(depth, node.Depth())
		}
	}
	return depth + 1
}
