package query

import (
	"context"
)

// ListAs runs q and decodes every record into a T.
func ListAs[T any](ctx context.Context, q *Query) ([]T, error) {
	recs, err := q.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(recs))
	for i, rec := range recs {
		if err := rec.Decode(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FirstAs runs q and decodes the first record into a T. It returns nil
// when nothing matches.
func FirstAs[T any](ctx context.Context, q *Query) (*T, error) {
	rec, err := q.First(ctx)
	if err != nil || rec == nil {
		return nil, err
	}
	var v T
	if err := rec.Decode(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
