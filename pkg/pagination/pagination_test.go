package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageWindows(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	page, info, err := Page(rows, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, page)
	assert.True(t, info.HasMore)
	require.NotEmpty(t, info.NextPageToken)

	page, info, err = Page(rows, info.NextPageToken, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, page)
	assert.True(t, info.HasMore)

	page, info, err = Page(rows, info.NextPageToken, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, page)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)
}

func TestPageEmptyAndPastEnd(t *testing.T) {
	page, info, err := Page([]int{}, "", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, info.HasMore)

	token := EncodeCursor(Cursor{Offset: 99})
	page, info, err = Page([]int{1, 2}, token, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, info.HasMore)
}

func TestPageBadToken(t *testing.T) {
	_, _, err := Page([]int{1}, "not-base64!!", 10)
	assert.Error(t, err)
}
