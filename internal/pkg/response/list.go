package response

// ListResponse is the standard wrapper for unpaginated list endpoints.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// NewListResponse wraps items, turning a nil slice into [] so clients never see null.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return ListResponse[T]{Items: items}
}
