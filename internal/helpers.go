package internal

import "strconv"

// ContextValue reads a typed value from the request-scoped store.
// Absent keys and values of a different type both come back as T's
// zero value, so callers pair it with keys they set themselves.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param reads a typed route parameter. Unparseable input yields the
// zero value; use c.Param for the raw string when the difference
// between "absent" and "zero" matters.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := parseAs[T](c.Param(name))
	return v
}

// Query reads a typed query parameter, zero on unparseable input.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := parseAs[T](c.Query(name))
	return v
}

// QueryDefault reads a typed query parameter, falling back to
// defaultValue when the parameter is missing, empty, or unparseable.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := parseAs[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// parseAs converts raw into T via the matching strconv parser. Ints
// reject float syntax rather than truncating, and bool accepts the
// ParseBool forms (1/t/TRUE/0/f/false and friends).
func parseAs[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return out, false
		}
		*p = n
	case *int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return out, false
		}
		*p = n
	case *float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		*p = f
	case *bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		*p = b
	default:
		// Named types under the constraint don't match the pointer
		// cases above; they read as unparseable.
		return out, false
	}
	return out, true
}
