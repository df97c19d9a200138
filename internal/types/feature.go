package types

import (
	"sort"
	"time"
)

// FeatureVector maps feature names to numeric values for a single base bar.
// Every value is computable at the close of the tagged bar; no feature may use
// data beyond that point.
type FeatureVector struct {
	// Time is the timestamp of the base bar this vector describes.
	Time time.Time
	// Values maps feature name to value. Absent features are simply missing
	// from the map, never zero-filled.
	Values map[string]float64
}

// NewFeatureVector creates an empty feature vector for the given bar time.
func NewFeatureVector(t time.Time) FeatureVector {
	return FeatureVector{
		Time:   t,
		Values: make(map[string]float64),
	}
}

// Get returns the value of a feature and whether it is present.
func (f FeatureVector) Get(name string) (float64, bool) {
	value, ok := f.Values[name]

	return value, ok
}

// Set stores a feature value.
func (f FeatureVector) Set(name string, value float64) {
	f.Values[name] = value
}

// Names returns all feature names in sorted order so iteration is
// deterministic.
func (f FeatureVector) Names() []string {
	names := make([]string, 0, len(f.Values))
	for name := range f.Values {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
