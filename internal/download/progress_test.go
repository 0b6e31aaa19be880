package download

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgress(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		ok      bool
		percent float64
		speed   string
		eta     string
	}{
		{"typical", "[download]  42.3% of   10.00MiB at    1.20MiB/s ETA 00:07", true, 42.3, "1.20MiB/s", "00:07"},
		{"integer percent", "[download] 7% of ~ 100.00MiB at 500.00KiB/s ETA 03:20", true, 7, "500.00KiB/s", "03:20"},
		{"finished", "[download] 100% of   10.00MiB in 00:00:03 at 3.01MiB/s", true, 100, "3.01MiB/s", ""},
		{"unknown eta", "[download]   0.0% of   10.00MiB at  Unknown B/s ETA Unknown", true, 0, "", ""},
		{"destination", "[download] Destination: /tmp/x.mp4", false, 0, "", ""},
		{"info line", "[youtube] abc: Downloading webpage", false, 0, "", ""},
		{"garbage", "%%%", false, 0, "", ""},
		{"empty", "", false, 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ParseProgress(tt.line)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.percent, p.Percent, 0.001)
			assert.Equal(t, tt.speed, p.Speed)
			assert.Equal(t, tt.eta, p.ETA)
		})
	}
}

func TestOutputTracker_PathPriority(t *testing.T) {
	dir := "/out/.temp/job"
	tr := newOutputTracker(dir)

	lines := []string{
		"carbon-title My Clip",
		"[download] Destination: /out/.temp/job/My Clip.f137.mp4",
		"[download] Destination: /out/.temp/job/My Clip.f140.m4a",
		`[Merger] Merging formats into "/out/.temp/job/My Clip.mp4"`,
		"carbon-file /out/.temp/job/My Clip.mp4",
	}
	for _, l := range lines {
		_, ok := tr.observe(l)
		assert.False(t, ok)
	}

	assert.Equal(t, "My Clip", tr.title)
	assert.Equal(t, []string{
		"/out/.temp/job/My Clip.mp4",
		"/out/.temp/job/My Clip.mp4",
		"/out/.temp/job/My Clip.f140.m4a",
	}, tr.candidates())
}

func TestOutputTracker_RelativePaths(t *testing.T) {
	tr := newOutputTracker("/out/.temp/job")
	tr.observe("[download] clip.mp4 has already been downloaded")
	assert.Equal(t, []string{filepath.Join("/out/.temp/job", "clip.mp4")}, tr.candidates())
}

func TestOutputTracker_Parts(t *testing.T) {
	tr := newOutputTracker("/d")

	var phases []string
	for _, l := range []string{
		"[download]  10.0% of 10MiB at 1MiB/s ETA 00:09",
		"[download] 100.0% of 10MiB at 1MiB/s ETA 00:00",
		"[download]   5.0% of 1MiB at 1MiB/s ETA 00:01",
		"[download]  80.0% of 1MiB at 1MiB/s ETA 00:00",
	} {
		p, ok := tr.observe(l)
		require.True(t, ok)
		phases = append(phases, p.Phase)
	}
	assert.Equal(t, []string{"downloading", "downloading", "downloading part 2", "downloading part 2"}, phases)
}
