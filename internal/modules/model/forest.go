package model

import (
	"fmt"

	"github.com/aristath/retail-insights/internal/domain"
	"gonum.org/v1/gonum/mat"
)

// Node is one node of a flattened regression tree.
// A node is a leaf when Left is negative; otherwise rows with
// x[Feature] <= Threshold go Left and the rest go Right.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a regression tree rooted at Nodes[0]
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest averages the output of its trees (random forest regression)
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Validate checks the tree structure so inference can never index out of range or loop
func (f *Forest) Validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for ti, tree := range f.Trees {
		n := len(tree.Nodes)
		if n == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Left < 0 {
				continue
			}
			if node.Feature < 0 || node.Feature >= domain.FeatureCount {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, node.Feature)
			}
			// children must point forward, which also rules out cycles
			if node.Left <= ni || node.Left >= n || node.Right <= ni || node.Right >= n {
				return fmt.Errorf("tree %d node %d: invalid children %d/%d", ti, ni, node.Left, node.Right)
			}
		}
	}
	return nil
}

// Predict implements Regressor
func (f *Forest) Predict(x *mat.Dense) ([]float64, error) {
	rows, _ := x.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := x.RawRowView(i)
		sum := 0.0
		for ti := range f.Trees {
			v, err := f.Trees[ti].eval(row)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", ti, err)
			}
			sum += v
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out, nil
}

func (t *Tree) eval(row []float64) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		node := t.Nodes[idx]
		if node.Left < 0 {
			return node.Value, nil
		}
		if row[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, fmt.Errorf("tree walk did not reach a leaf")
}
