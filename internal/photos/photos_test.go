package photos

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"photo.jpg", "image/jpeg", true},
		{"PHOTO.JPEG", "image/jpeg", true},
		{"shot.png", "image/png", true},
		{"iphone.HEIC", "image/heic", true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, ok := ContentType(tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1717000000123)
	assert.Equal(t, "g1_1717000000123.jpg", ObjectKey("g1", "IMG_0001.JPG", now))
}

// TestS3RoundTrip runs against a real bucket when PHOTO_TEST_BUCKET is set.
func TestS3RoundTrip(t *testing.T) {
	bucket := os.Getenv("PHOTO_TEST_BUCKET")
	if bucket == "" {
		t.Skip("PHOTO_TEST_BUCKET not set")
	}
	ctx := context.Background()

	s, err := NewS3(ctx, bucket, "")
	if err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v", bucket, err)
	}

	key := ObjectKey("test", "probe.txt", time.Now())
	url, err := s.Put(ctx, key, "text/plain", strings.NewReader("hello"), 5)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, "/"+key))
	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
}
