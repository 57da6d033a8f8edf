package models

import "sort"

const TopAssetsLimit = 5

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// TypeBreakdown reports exactly the Returnable and Non-returnable buckets,
// in that order; any other productType values are ignored.
func TypeBreakdown(counts map[string]int64) []TypeCount {
	return []TypeCount{
		{Type: TypeReturnable, Count: counts[TypeReturnable]},
		{Type: TypeNonReturnable, Count: counts[TypeNonReturnable]},
	}
}

type AssetPopularity struct {
	Name     string `bson:"_id" json:"name"`
	Requests int64  `bson:"requests" json:"requests"`
}

// RankAssets orders by request count descending, then name, and keeps at most n.
func RankAssets(items []AssetPopularity, n int) []AssetPopularity {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Requests != items[j].Requests {
			return items[i].Requests > items[j].Requests
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
