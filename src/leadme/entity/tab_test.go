package entity

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabHelpers(t *testing.T) {
	tab := Tab{Name: "(3) Inbox (12) ", URL: "https://www.mail.example:8443/inbox"}
	assert.Equal(t, "Inbox", tab.CleanName())
	assert.Equal(t, "mail.example", tab.Domain())
	assert.Equal(t, "www.mail.example:8443/inbox", tab.URLWithoutScheme())

	assert.Empty(t, Tab{URL: "::not a url"}.Domain())

	internal := Tab{URL: "chrome://extensions"}
	assert.Equal(t, _faviconFallback, internal.FaviconURL())

	withIcon := Tab{URL: "https://a.example", Favicon: "https://a.example/icon.png"}
	assert.Equal(t, "https://a.example/icon.png", withIcon.FaviconURL())
}

func TestGenerateClassCode(t *testing.T) {
	code, err := GenerateClassCode(nil)
	require.NoError(t, err)
	assert.Len(t, code, ClassCodeLength)
	assert.True(t, ValidClassCode(code))

	fixed, err := GenerateClassCode(bytes.NewReader([]byte{0, 1, 2, 30}))
	require.NoError(t, err)
	assert.Equal(t, "abc9", fixed)

	// 248 and above would favour the first characters of the alphabet
	skipped, err := GenerateClassCode(bytes.NewReader([]byte{248, 255, 0, 1, 2, 247, 7, 7}))
	require.NoError(t, err)
	assert.Equal(t, "abc9", skipped)

	_, err = GenerateClassCode(bytes.NewReader([]byte{250, 251, 252, 253}))
	assert.Error(t, err, "runs out of usable bytes")

	_, err = GenerateClassCode(iotest.ErrReader(errors.New("no entropy")))
	assert.Error(t, err)

	assert.False(t, ValidClassCode("ab1l"))
	assert.False(t, ValidClassCode("abc"))
}

func TestKnownActions(t *testing.T) {
	assert.True(t, ActionMonitorPermission.Known())
	assert.True(t, ActionUploadIcons.Known())
	assert.False(t, ActionType("teleport").Known())
	assert.Equal(t, "streaming", MonitorStreaming.String())
	assert.Equal(t, "unknown", MonitorState(42).String())
}
