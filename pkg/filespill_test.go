package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type generationRecord struct {
	Generation int
	Best       float64
	Elapsed    time.Duration
}

func newSpill[T any](t *testing.T) FileSpill[T] {
	t.Helper()

	spill, err := NewFileSpill[T](WithDir(t.TempDir()))
	require.NoError(t, err)

	t.Cleanup(func() { _ = spill.Remove() })

	return spill
}

func TestFileSpill(t *testing.T) {
	t.Run("NewFileSpill honours the directory option", func(t *testing.T) {
		dir := t.TempDir()

		spill, err := NewFileSpill[int](WithDir(dir), WithPattern("history-*.gob"))
		require.NoError(t, err)
		defer spill.Remove()

		require.Equal(t, dir, filepath.Dir(spill.Path()))
		require.Contains(t, filepath.Base(spill.Path()), "history-")
	})

	t.Run("Append and Get", func(t *testing.T) {
		spill := newSpill[string](t)

		require.NoError(t, spill.Append("first"))
		require.NoError(t, spill.Append("second"))

		val, err := spill.Get(1)
		require.NoError(t, err)
		require.Equal(t, "second", val)

		val, err = spill.Get(3)
		require.Error(t, err)
		require.Equal(t, "", val)
	})

	t.Run("AppendBatch and Len", func(t *testing.T) {
		spill := newSpill[int](t)

		require.Equal(t, uint64(0), spill.Len())
		require.NoError(t, spill.AppendBatch([]int{10, 20, 30}))
		require.NoError(t, spill.Append(40))
		require.Equal(t, uint64(4), spill.Len())

		val, err := spill.Get(3)
		require.NoError(t, err)
		require.Equal(t, 40, val)
	})

	t.Run("Range visits items in order", func(t *testing.T) {
		spill := newSpill[generationRecord](t)

		want := []generationRecord{
			{Generation: 0, Best: 1, Elapsed: time.Second},
			{Generation: 1, Best: 3.5, Elapsed: 2 * time.Second},
			{Generation: 2, Best: 0},
		}
		require.NoError(t, spill.AppendBatch(want))

		var got []generationRecord

		err := spill.Range(func(_ uint64, item generationRecord) error {
			got = append(got, item)
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("zero values do not leak between decoded items", func(t *testing.T) {
		spill := newSpill[generationRecord](t)

		require.NoError(t, spill.Append(generationRecord{Generation: 1, Best: 9}))
		require.NoError(t, spill.Append(generationRecord{Generation: 2}))

		items, err := spill.Items()
		require.NoError(t, err)
		require.Equal(t, []generationRecord{{Generation: 1, Best: 9}, {Generation: 2}}, items)
	})

	t.Run("Range callback error stops iteration", func(t *testing.T) {
		spill := newSpill[int](t)
		require.NoError(t, spill.AppendBatch([]int{1, 2, 3}))

		count := 0
		err := spill.Range(func(index uint64, _ int) error {
			count++
			if index == 1 {
				return errors.New("stop")
			}

			return nil
		})

		require.Error(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("Close keeps data readable and rejects appends", func(t *testing.T) {
		spill := newSpill[int](t)
		require.NoError(t, spill.Append(7))
		require.NoError(t, spill.Close())
		require.NoError(t, spill.Close())

		val, err := spill.Get(0)
		require.NoError(t, err)
		require.Equal(t, 7, val)

		require.Error(t, spill.Append(8))
	})

	t.Run("Remove deletes the backing file", func(t *testing.T) {
		spill, err := NewFileSpill[int](WithDir(t.TempDir()))
		require.NoError(t, err)
		require.NoError(t, spill.Append(1))

		require.NoError(t, spill.Remove())

		_, statErr := os.Stat(spill.Path())
		require.ErrorIs(t, statErr, os.ErrNotExist)
		require.Equal(t, uint64(0), spill.Len())
		require.NoError(t, spill.Remove())
	})

	t.Run("empty spill", func(t *testing.T) {
		spill := newSpill[int](t)

		items, err := spill.Items()
		require.NoError(t, err)
		require.Empty(t, items)

		_, err = spill.Get(0)
		require.Error(t, err)
	})
}

func BenchmarkAppend(b *testing.B) {
	spill, err := NewFileSpill[generationRecord](WithDir(b.TempDir()))
	if err != nil {
		b.Fatalf("failed to create filespill: %v", err)
	}
	defer spill.Remove()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = spill.Append(generationRecord{Generation: i, Best: float64(i)})
	}
}

func BenchmarkRange(b *testing.B) {
	spill, err := NewFileSpill[int](WithDir(b.TempDir()))
	if err != nil {
		b.Fatalf("failed to create filespill: %v", err)
	}
	defer spill.Remove()

	for i := 0; i < 1000; i++ {
		_ = spill.Append(i)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = spill.Range(func(uint64, int) error { return nil })
	}
}
