package services

import "context"

// BulkFailure records one failed item of a bulk operation.
type BulkFailure struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// BulkResult aggregates the per-item outcomes of a bulk operation.
type BulkResult[R any] struct {
	Succeeded    []R           `json:"succeeded"`
	Failed       []BulkFailure `json:"failed"`
	SuccessCount int           `json:"successCount"`
	FailureCount int           `json:"failureCount"`
}

// RunBulk executes fn for every item in order. Items are independent: a
// failing item is captured and the batch continues. There is no retry and no
// mid-batch cancellation; once started the loop runs to completion and the
// caller surfaces partial failure from the aggregate result.
func RunBulk[T, R any](ctx context.Context, items []T, idOf func(T) string, fn func(context.Context, T) (R, error)) BulkResult[R] {
	result := BulkResult[R]{
		Succeeded: make([]R, 0, len(items)),
		Failed:    []BulkFailure{},
	}

	for i, item := range items {
		out, err := fn(ctx, item)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{
				Index: i,
				ID:    idOf(item),
				Error: err.Error(),
			})
			result.FailureCount++
			continue
		}
		result.Succeeded = append(result.Succeeded, out)
		result.SuccessCount++
	}

	return result
}
