package lightcycler

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters that spreadsheet and instrument exports actually use, in order
// of preference when several are plausible.
var knownDelimiters = []byte{'\t', ',', ';', '|'}

// DetermineDelimiter returns the rune most likely delimiting the values of a
// CSV-like export. LightCycler text exports are tab delimited while
// spreadsheet "save as" output is usually comma or semicolon delimited, so
// this is sniffed rather than guessed from the file extension.
func DetermineDelimiter(content []byte) rune {
	d := detector.New()
	detected := make(map[byte]bool)
	for _, c := range d.DetectDelimiter(bytes.NewReader(content), '"') {
		if len(c) == 1 {
			detected[c[0]] = true
		}
	}

	candidates := make([]byte, 0, len(knownDelimiters))
	for _, known := range knownDelimiters {
		if detected[known] {
			candidates = append(candidates, known)
		}
	}
	if len(candidates) == 0 {
		// The detector needs a few consistent lines.
		candidates = knownDelimiters
	}

	// Semicolon files with comma decimals make both plausible; the header
	// has no decimals.
	header := firstLine(content)
	best, bestCount := byte(','), 0
	for _, c := range candidates {
		if n := bytes.Count(header, []byte{c}); n > bestCount {
			best, bestCount = c, n
		}
	}
	if bestCount == 0 && len(candidates) < len(knownDelimiters) {
		best = candidates[0]
	}

	return rune(best)
}

func firstLine(content []byte) []byte {
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		return content[:i]
	}
	return content
}
