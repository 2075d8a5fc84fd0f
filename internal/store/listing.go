package store

import (
	"cloud.google.com/go/firestore"
)

// ListOptions narrows a per-user collection query. Tags filter by overlap:
// a row matches when any of its tags intersects the requested set.
type ListOptions struct {
	Tags  []string
	Limit int
}

func applyListOptions(q firestore.Query, opts ListOptions) firestore.Query {
	if len(opts.Tags) > 0 {
		q = q.Where("tags", "array-contains-any", opts.Tags)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return q
}
