package consensus

import (
	"errors"
	"fmt"
	"math/rand"
)

// JLinkage groups data into multiple models by agglomerative
// clustering of preference sets. Each datum's preference set records
// which random hypotheses it supports; data belonging to the same true
// model tend to support the same hypotheses, so clusters of similar
// preference sets recover the models without knowing their count in
// advance.
type JLinkage[D any, F any] struct {
	model  Model[D, F]
	params Params
}

// NewJLinkage creates a J-linkage engine around a model.
func NewJLinkage[D any, F any](model Model[D, F], params Params) (*JLinkage[D, F], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &JLinkage[D, F]{model: model, params: params}, nil
}

// Run fits models to data. A run that finds no acceptable model
// returns empty Models with every datum in Outliers.
func (j *JLinkage[D, F]) Run(data []D) (*Results[D, F], error) {
	if len(data) < j.params.SampleSize {
		return emptyResults[D, F](data), nil
	}
	rng := rand.New(rand.NewSource(j.params.Seed))

	prefs := j.buildPreferenceSets(data, rng)
	if prefs == nil {
		return emptyResults[D, F](data), nil
	}

	clusters := agglomerate(prefs)

	results := &Results[D, F]{}
	for _, members := range clusters {
		if len(members) < j.params.MinInliers {
			for _, i := range members {
				results.Outliers = append(results.Outliers, data[i])
			}
			continue
		}
		subset := make([]D, len(members))
		for k, i := range members {
			subset[k] = data[i]
		}
		fit, err := j.model.Fit(subset)
		if err != nil {
			if errors.Is(err, ErrDegenerate) {
				results.Outliers = append(results.Outliers, subset...)
				continue
			}
			return nil, fmt.Errorf("consensus: refit cluster: %w", err)
		}
		results.Models = append(results.Models, ModelResult[D, F]{Fit: fit, Inliers: subset})
	}
	return results, nil
}

// buildPreferenceSets samples random hypotheses and records, per
// datum, which hypotheses it supports within the inlier threshold.
// Returns nil if every sampled hypothesis was degenerate.
func (j *JLinkage[D, F]) buildPreferenceSets(data []D, rng *rand.Rand) [][]bool {
	var hypotheses []F
	sample := make([]D, j.params.SampleSize)
	for iter := 0; iter < j.params.Iterations; iter++ {
		for k, idx := range sampleIndices(rng, len(data), j.params.SampleSize) {
			sample[k] = data[idx]
		}
		fit, err := j.model.Fit(sample)
		if err != nil {
			continue
		}
		hypotheses = append(hypotheses, fit)
	}
	if len(hypotheses) == 0 {
		return nil
	}

	prefs := make([][]bool, len(data))
	for i := range prefs {
		prefs[i] = make([]bool, len(hypotheses))
	}
	for h, fit := range hypotheses {
		for i, r := range j.model.Residuals(data, fit) {
			if r < j.params.InlierThreshold {
				prefs[i][h] = true
			}
		}
	}
	return prefs
}

// agglomerate merges clusters bottom-up by Jaccard distance between
// their preference sets (the intersection of member preference sets).
// Merging stops when the closest pair no longer shares any hypothesis
// (distance 1). Returns member index lists; every datum lands in
// exactly one cluster.
func agglomerate(prefs [][]bool) [][]int {
	type clust struct {
		members []int
		pref    []bool
	}
	clusters := make([]clust, len(prefs))
	for i, p := range prefs {
		clusters[i] = clust{members: []int{i}, pref: append([]bool(nil), p...)}
	}

	for len(clusters) > 1 {
		bestA, bestB := -1, -1
		bestDist := 1.0
		for a := 0; a < len(clusters); a++ {
			for b := a + 1; b < len(clusters); b++ {
				if d := jaccardDist(clusters[a].pref, clusters[b].pref); d < bestDist {
					bestDist = d
					bestA, bestB = a, b
				}
			}
		}
		if bestA < 0 {
			break
		}
		merged := clust{
			members: append(clusters[bestA].members, clusters[bestB].members...),
			pref:    intersect(clusters[bestA].pref, clusters[bestB].pref),
		}
		clusters[bestA] = merged
		clusters = append(clusters[:bestB], clusters[bestB+1:]...)
	}

	out := make([][]int, len(clusters))
	for i, c := range clusters {
		out[i] = c.members
	}
	return out
}

// jaccardDist is 1 - |A∩B|/|A∪B| over hypothesis support sets. Two
// empty sets are maximally distant: data supporting nothing gives no
// evidence of a shared model.
func jaccardDist(a, b []bool) float64 {
	inter, union := 0, 0
	for i := range a {
		if a[i] && b[i] {
			inter++
		}
		if a[i] || b[i] {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return 1 - float64(inter)/float64(union)
}

func intersect(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}
