package picking

import "github.com/kyroy/kdtree"

// ScreenIndex is a kd-tree over projected vertex positions for screen-space
// nearest-neighbor queries.
type ScreenIndex struct {
	tree *kdtree.KDTree
}

type vertexPoint struct {
	x, y  float64
	index int
}

func (p *vertexPoint) Dimensions() int { return 2 }

func (p *vertexPoint) Dimension(i int) float64 {
	if i == 0 {
		return p.x
	}
	return p.y
}

// NewScreenIndex builds an index over the in-range projected vertices.
func NewScreenIndex(projected []ProjectedVertex) *ScreenIndex {
	points := make([]kdtree.Point, 0, len(projected))
	for i, pv := range projected {
		if !pv.InRange {
			continue
		}
		points = append(points, &vertexPoint{
			x:     float64(pv.Pos.X()),
			y:     float64(pv.Pos.Y()),
			index: i,
		})
	}
	return &ScreenIndex{tree: kdtree.New(points)}
}

// Nearest returns the index of the vertex closest to the given pixel
// position, or false when no vertex is in range.
func (s *ScreenIndex) Nearest(x, y float32) (int, bool) {
	res := s.tree.KNN(&vertexPoint{x: float64(x), y: float64(y)}, 1)
	if len(res) == 0 {
		return 0, false
	}
	return res[0].(*vertexPoint).index, true
}
