package stripewebhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteDriveURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "share link rewritten",
			in:   "https://drive.google.com/file/d/ABC123/view?usp=sharing",
			want: "https://drive.google.com/uc?export=download&id=ABC123",
		},
		{
			name: "id with dashes and underscores",
			in:   "https://drive.google.com/file/d/1b-f2_bWN17R/view",
			want: "https://drive.google.com/uc?export=download&id=1b-f2_bWN17R",
		},
		{
			name: "non-drive url passes through",
			in:   "https://www.dropbox.com/scl/fi/abc/plate_01.jpg?dl=1",
			want: "https://www.dropbox.com/scl/fi/abc/plate_01.jpg?dl=1",
		},
		{
			name: "drive direct-download url passes through",
			in:   "https://drive.google.com/uc?export=download&id=XYZ",
			want: "https://drive.google.com/uc?export=download&id=XYZ",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RewriteDriveURL(tc.in))
		})
	}
}

func TestResolveArtworkURL(t *testing.T) {
	url := ResolveArtworkURL(map[string]string{
		"printful_file_url": "https://drive.google.com/file/d/ABC123/view",
	})
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=ABC123", url)

	assert.Equal(t, FallbackArtworkURL, ResolveArtworkURL(nil))
	assert.Equal(t, FallbackArtworkURL, ResolveArtworkURL(map[string]string{"printful_file_url": "  "}))
}
