package utils

// Or returns *v, or current when v is nil. Patch types use nil for "leave unchanged".
func Or[T any](v *T, current T) T {
	if v == nil {
		return current
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}
