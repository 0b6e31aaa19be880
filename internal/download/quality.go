package download

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// DefaultQuality is used when no hint is given or nothing matches.
const DefaultQuality = "best"

// minQualityScore is the Jaro-Winkler similarity a hint needs to be treated
// as a misspelled preset.
const minQualityScore = 0.80

// qualityPresets maps quality names to yt-dlp format selectors.
var qualityPresets = map[string]string{
	"best":  "bestvideo+bestaudio/best",
	"1080p": "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
	"720p":  "bestvideo[height<=720]+bestaudio/best[height<=720]",
	"480p":  "bestvideo[height<=480]+bestaudio/best[height<=480]",
}

// Qualities returns the preset names in a stable order.
func Qualities() []string {
	names := make([]string, 0, len(qualityPresets))
	for name := range qualityPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveQuality maps a quality hint to a preset name and its format
// selector. Raw yt-dlp selectors pass through unchanged; near misses such as
// "1080" or "720P" resolve to the closest preset; anything else is "best".
func ResolveQuality(hint string) (name, format string) {
	name, format, _ = resolveQuality(hint)
	return name, format
}

// KnownQuality reports whether hint resolves to something on its own,
// without falling back to the default. Empty hints are known.
func KnownQuality(hint string) bool {
	_, _, ok := resolveQuality(hint)
	return ok
}

func resolveQuality(hint string) (name, format string, ok bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return DefaultQuality, qualityPresets[DefaultQuality], true
	}
	if f, ok := qualityPresets[h]; ok {
		return h, f, true
	}
	if strings.ContainsAny(h, "[+/") {
		return hint, strings.TrimSpace(hint), true
	}
	if f, ok := qualityPresets[h+"p"]; ok {
		return h + "p", f, true
	}

	best, bestScore := "", float32(0)
	for _, candidate := range Qualities() {
		score := edlib.JaroWinklerSimilarity(h, candidate)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore >= minQualityScore {
		return best, qualityPresets[best], true
	}
	return DefaultQuality, qualityPresets[DefaultQuality], false
}
