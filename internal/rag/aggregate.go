package rag

import (
	"net/http"

	"fitai/internal/search"
)

// Aggregate splits a multi-search response into menu and info candidate
// buckets. Failed sub-queries contribute nothing; hits from unrecognized
// indexes are dropped. Retrieval order is preserved and duplicates are
// kept, since the prompt consumes raw ranked text.
func Aggregate(resp search.MultiResponse) CandidateSet {
	var out CandidateSet
	for _, sub := range resp.Responses {
		if sub.Status != http.StatusOK {
			continue
		}
		for _, hit := range sub.Hits.Hits {
			switch hit.Index {
			case MenuIndex:
				out.Menus = append(out.Menus, hit.Source.Text)
			case InfoIndex:
				out.Infos = append(out.Infos, hit.Source.Text)
			}
		}
	}
	return out
}
