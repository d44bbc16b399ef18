package id_test

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/quill/pkg/id"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()

		v := id.New()
		require.Len(t, v, id.Length)
		require.True(t, strings.HasSuffix(v, "000"))
		for _, c := range v {
			require.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'), "unexpected char %q", c)
		}
	})

	t.Run("encodes creation time", func(t *testing.T) {
		t.Parallel()

		at := time.UnixMilli(1_700_000_000_123)
		v := id.NewAt(at)
		require.Equal(t, "001700000000123", v[:15])

		ts, ok := id.Timestamp(v)
		require.True(t, ok)
		require.True(t, at.Equal(ts))
	})

	t.Run("sorts by time", func(t *testing.T) {
		t.Parallel()

		base := time.UnixMilli(1_700_000_000_000)
		ids := make([]string, 0, 5)
		for i := range 5 {
			ids = append(ids, id.NewAt(base.Add(time.Duration(i)*time.Millisecond)))
		}
		require.True(t, slices.IsSorted(ids))
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			v := id.New()
			_, dup := seen[v]
			require.False(t, dup)
			seen[v] = struct{}{}
		}
	})
}

func TestTimestamp(t *testing.T) {
	t.Parallel()

	for name, in := range map[string]string{
		"empty":      "",
		"short":      "0017000000001",
		"bad suffix": strings.Repeat("0", 47) + "001",
		"bad digits": "00170000000x123" + strings.Repeat("a", 32) + "000",
		"bad hex":    "001700000000123" + strings.Repeat("z", 32) + "000",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, ok := id.Timestamp(in)
			require.False(t, ok)
		})
	}
}

func TestNewRequestID(t *testing.T) {
	t.Parallel()

	v := id.NewRequestID()
	_, err := uuid.Parse(v)
	require.NoError(t, err)
	require.NotEqual(t, v, id.NewRequestID())
}

func BenchmarkNew(b *testing.B) {
	for b.Loop() {
		_ = id.New()
	}
}
