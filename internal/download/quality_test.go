package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveQuality(t *testing.T) {
	tests := []struct {
		hint       string
		wantName   string
		wantFormat string
	}{
		{"", "best", "bestvideo+bestaudio/best"},
		{"best", "best", "bestvideo+bestaudio/best"},
		{"1080p", "1080p", "bestvideo[height<=1080]+bestaudio/best[height<=1080]"},
		{"720P", "720p", "bestvideo[height<=720]+bestaudio/best[height<=720]"},
		{" 480p ", "480p", "bestvideo[height<=480]+bestaudio/best[height<=480]"},
		{"1080", "1080p", "bestvideo[height<=1080]+bestaudio/best[height<=1080]"},
		{"1080i", "1080p", "bestvideo[height<=1080]+bestaudio/best[height<=1080]"},
		{"bset", "best", "bestvideo+bestaudio/best"},
		{"zzzzzz", "best", "bestvideo+bestaudio/best"},
		{"bv*[height<=360]+ba", "bv*[height<=360]+ba", "bv*[height<=360]+ba"},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			name, format := ResolveQuality(tt.hint)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantFormat, format)
		})
	}
}

func TestQualities(t *testing.T) {
	assert.Equal(t, []string{"1080p", "480p", "720p", "best"}, Qualities())
}

func TestKnownQuality(t *testing.T) {
	for _, hint := range []string{"", "best", "720P", "1080", "1080i", "bset", "bv*[height<=360]+ba"} {
		assert.True(t, KnownQuality(hint), "hint %q", hint)
	}
	assert.False(t, KnownQuality("zzzzzz"))
}
