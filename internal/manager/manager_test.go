package manager_test

import (
	"fmt"
	"sync"
	"testing"

	"sansls/internal/manager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentManager(t *testing.T) {
	dm := manager.NewDocumentManager()
	uri := "file:///w/a.sans"

	t.Run("get before open", func(t *testing.T) {
		_, err := dm.Get(uri)
		assert.ErrorIs(t, err, manager.ErrNotOpen)
	})

	t.Run("update replaces", func(t *testing.T) {
		first := dm.Update(uri, 1, "x = 1")
		second := dm.Update(uri, 2, "कार्यम् f():\n    प्रतिददाति 1")

		e, err := dm.Get(uri)
		require.NoError(t, err)
		assert.Same(t, second, e)
		assert.NotSame(t, first.Doc, e.Doc)
		assert.Equal(t, int32(2), e.Version)

		doc, err := dm.Document(uri)
		require.NoError(t, err)
		_, ok := doc.Function("f")
		assert.True(t, ok)
	})

	t.Run("release", func(t *testing.T) {
		dm.Release(uri)
		_, err := dm.Document(uri)
		assert.ErrorIs(t, err, manager.ErrNotOpen)
	})

	t.Run("close all", func(t *testing.T) {
		dm.Update("file:///b", 1, "")
		dm.Update("file:///a", 1, "")
		assert.Equal(t, []string{"file:///a", "file:///b"}, dm.URIs())
		dm.CloseAll()
		assert.Empty(t, dm.URIs())
	})
}

func TestDocumentManagerConcurrent(t *testing.T) {
	dm := manager.NewDocumentManager()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uri := fmt.Sprintf("file:///%d", i%4)
			dm.Update(uri, int32(i), fmt.Sprintf("x = %d", i))
			_, _ = dm.Get(uri)
		}(i)
	}
	wg.Wait()
	assert.Len(t, dm.URIs(), 4)
}
