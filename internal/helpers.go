package internal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// scalar lists the argument types Arg can produce.
type scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the value stored under key, or the zero value of T
// when it is missing or of another type. A request Context works as ctx, so
// values stored with Context.Set are visible to endpoints and middlewares.
func ContextValue[T any](ctx context.Context, key any) T {
	v, _ := ctx.Value(key).(T)
	return v
}

// Arg returns the bound argument name as T. Values already of type T pass
// through, strings and JSON numbers are parsed. Missing or unparsable values
// yield def.
func Arg[T scalar](in Args, name string, def T) T {
	switch v := in.values[name].(type) {
	case nil:
		return def
	case T:
		return v
	case string:
		if out, ok := convertParam[T](strings.TrimSpace(v)); ok {
			return out
		}
	case int, int64, float64:
		if out, ok := convertParam[T](fmt.Sprint(v)); ok {
			return out
		}
	}
	return def
}

// convertParam converts a raw string to T, reporting whether it parsed.
func convertParam[T scalar](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
