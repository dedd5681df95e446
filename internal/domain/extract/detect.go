package extract

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Markers that identify a Shopee seller income statement. Matching is done
// against lowercased document text in a single Aho-Corasick pass.
var shopeeMarkers = []string{
	"shopee",
	"income statement",
	"total payout released",
	"name in bank account",
	"merchandise subtotal",
	"amount paid by buyer",
}

// minShopeeMarkers is the number of distinct markers required before the
// statement preset is preferred over geometric detection.
const minShopeeMarkers = 2

// profileDetector sniffs document text to resolve ProfileAuto.
type profileDetector struct {
	matcher *ahocorasick.Matcher
}

func newProfileDetector() *profileDetector {
	patterns := make([][]byte, len(shopeeMarkers))
	for i, m := range shopeeMarkers {
		patterns[i] = []byte(m)
	}
	return &profileDetector{matcher: ahocorasick.NewMatcher(patterns)}
}

// isShopeeStatement reports whether the text carries enough statement
// markers to select the Shopee preset.
func (d *profileDetector) isShopeeStatement(text string) bool {
	if text == "" {
		return false
	}
	matches := d.matcher.Match([]byte(strings.ToLower(text)))
	return len(matches) >= minShopeeMarkers
}
