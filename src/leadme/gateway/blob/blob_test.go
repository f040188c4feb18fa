package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNames(t *testing.T) {
	assert.Equal(t, "webFollowers/ab12/u1", ScreenshotObject("ab12", "u1"))
	assert.Equal(t, []string{"webFollowers/ab12/", "ab12/"}, ScreenshotPrefixes("ab12"))
	assert.Equal(t, "app_icons/com.chess", AppIconObject("com.chess"))
}

func TestDataURL(t *testing.T) {
	assert.Equal(t, "data:image/jpeg;base64,AQID", DataURL("image/jpeg", []byte{1, 2, 3}))

	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgowMDAw", DataURL("", png))
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Put("webFollowers/ab12/u1", "image/jpeg", []byte{1, 2, 3})
	m.Put("webFollowers/ab12/u2", "image/jpeg", []byte{4})
	m.Put("webFollowers/zz99/u3", "image/jpeg", []byte{5})

	url, err := m.Fetch(ctx, "webFollowers/ab12/u1")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,AQID", url)

	_, err = m.Fetch(ctx, "missing")
	assert.Error(t, err)

	ok, err := m.Exists(ctx, "webFollowers/ab12/u2")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := m.DeletePrefix(ctx, "webFollowers/ab12/")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"webFollowers/zz99/u3"}, m.Names())
}
