// Package raster bins a pixel cloud onto a regular UTM or geographic grid
// and aggregates each cell into water-surface elevation, water area and
// auxiliary channels.
//
// One pass is: grid extent from the scene bounds (NewGridDescriptor),
// point-to-cell assignment (NewBinMap), per-cell aggregation (Aggregate)
// and height corrections (ApplyHeightCorrections). Worker runs the optional
// coarse pass used to refine geolocation before the final pass.
//
// Results are immutable once a pass returns. Product formatting and
// persistence live in the product and db packages.
package raster
