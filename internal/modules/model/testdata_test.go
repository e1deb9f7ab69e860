package model

import "github.com/aristath/retail-insights/internal/domain"

// priceStump splits on Price (column 2): price <= 10 sells 100 units, otherwise 60
func priceStump() Tree {
	return Tree{Nodes: []Node{
		{Feature: 2, Threshold: 10, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: 100},
		{Left: -1, Right: -1, Value: 60},
	}}
}

// weekendStump splits on weekend (column 11)
func weekendStump() Tree {
	return Tree{Nodes: []Node{
		{Feature: 11, Threshold: 0.5, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: 40},
		{Left: -1, Right: -1, Value: 80},
	}}
}

func row(price, weekend float64) []float64 {
	r := make([]float64, domain.FeatureCount)
	r[2] = price
	r[11] = weekend
	return r
}
