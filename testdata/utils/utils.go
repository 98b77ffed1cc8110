package utils

// Ptr returns a pointer to v. Handy for optional fields in test fixtures.
func Ptr[T any](v T) *T {
	return &v
}
