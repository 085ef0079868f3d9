// Package layers classifies raw tagged features into the fixed set of
// renderable layers and projects them into the planar poster frame.
package layers

import (
	"github.com/woozymasta/osmposter/internal/geo"
	"github.com/woozymasta/osmposter/internal/overpass"
)

// Kind enumerates the renderable layers. The numeric value is the z-order:
// lower kinds draw first so roads stay visible on top.
type Kind int

const (
	Water Kind = iota
	Parks
	Roads
)

// Kinds lists every layer in ascending z-order.
var Kinds = []Kind{Water, Parks, Roads}

// String returns the layer name.
func (k Kind) String() string {
	switch k {
	case Water:
		return "water"
	case Parks:
		return "parks"
	case Roads:
		return "roads"
	}
	return "unknown"
}

// Layer holds the classified features of one kind in source order.
type Layer struct {
	Kind     Kind
	Features []overpass.Feature
}

// Set is a complete classified layer set, indexed by Kind.
type Set [3]Layer

// ProjectedFeature is one feature in planar coordinates, keeping its tags
// for style lookups.
type ProjectedFeature struct {
	Geometry geo.PlaneGeometry
	Tags     map[string]string
}

// ProjectedLayer is a layer after projection.
type ProjectedLayer struct {
	Kind     Kind
	Features []ProjectedFeature
}

// ProjectedSet is a fully projected layer set, indexed by Kind.
type ProjectedSet [3]ProjectedLayer

// Project converts every classified feature to planar coordinates.
// Degenerate geometries (too few points for their kind) are dropped.
// Nothing in the result is mutated after this step.
func (s Set) Project(proj *geo.Projector) ProjectedSet {
	var out ProjectedSet

	for _, kind := range Kinds {
		layer := ProjectedLayer{Kind: kind}
		for _, f := range s[kind].Features {
			if !f.Geometry.Valid() {
				continue
			}
			layer.Features = append(layer.Features, ProjectedFeature{
				Geometry: proj.ProjectGeometry(f.Geometry),
				Tags:     f.Tags,
			})
		}
		out[kind] = layer
	}

	return out
}
