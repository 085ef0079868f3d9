package layers

import (
	"github.com/woozymasta/osmposter/internal/overpass"

	"github.com/rs/zerolog/log"
)

// Classification is first-match by rule order, so a feature lands in at
// most one layer. Water outranks parks outranks roads: a path tagged
// through a park renders as park, never twice.
type rule struct {
	kind  Kind
	match func(tags map[string]string) bool
}

var rules = []rule{
	{Water, func(tags map[string]string) bool {
		return tags["natural"] == "water" ||
			tags["waterway"] == "riverbank" ||
			tags["water"] != ""
	}},
	{Parks, func(tags map[string]string) bool {
		switch tags["leisure"] {
		case "park", "garden", "nature_reserve":
			return true
		}
		switch tags["landuse"] {
		case "grass", "forest", "meadow", "recreation_ground":
			return true
		}
		return false
	}},
	{Roads, func(tags map[string]string) bool {
		return tags["highway"] != ""
	}},
}

// Classify assigns each feature to its layer. Features matching no rule
// are dropped silently; the fetch is expected to return extraneous tags.
// Source order is preserved inside every layer.
func Classify(features []overpass.Feature) Set {
	var set Set
	for _, kind := range Kinds {
		set[kind].Kind = kind
	}

	dropped := 0
	for _, f := range features {
		matched := false
		for _, r := range rules {
			if r.match(f.Tags) {
				set[r.kind].Features = append(set[r.kind].Features, f)
				matched = true
				break
			}
		}
		if !matched {
			dropped++
		}
	}

	log.Debug().
		Int("water", len(set[Water].Features)).
		Int("parks", len(set[Parks].Features)).
		Int("roads", len(set[Roads].Features)).
		Int("dropped", dropped).
		Msg("Features classified")

	return set
}
