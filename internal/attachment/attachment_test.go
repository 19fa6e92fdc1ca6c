package attachment_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/attachment"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func TestStore_PutGet(t *testing.T) {
	s := attachment.NewStore()

	a, err := s.Put(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", a.MIMEType)
	assert.Equal(t, ".png", a.Extension())
	assert.Equal(t, "/api/v1/attachments/"+a.ID.String(), a.URL())

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got.Data)

	resolved, err := s.Resolve(a.URL())
	require.NoError(t, err)
	assert.Equal(t, a.ID, resolved.ID)

	s.Delete(a.ID)
	_, err = s.Get(a.ID)
	assert.ErrorIs(t, err, attachment.ErrNotFound)
}

func TestStore_PutRejectsNonImage(t *testing.T) {
	_, err := attachment.NewStore().Put([]byte("%PDF-1.4 not a picture"))
	assert.ErrorIs(t, err, attachment.ErrNotImage)
}

func TestStore_Resolve(t *testing.T) {
	s := attachment.NewStore()

	for _, url := range []string{"", "https://example.com/a.png", attachment.URLPrefix + "nope", attachment.URLPrefix + uuid.NewString()} {
		_, err := s.Resolve(url)
		assert.ErrorIs(t, err, attachment.ErrNotFound, url)
	}
}
