package integration

import (
	"fmt"
	"math/rand"

	"github.com/go-faker/faker/v4"
)

var unicodeSamples = []string{
	"héllo wörld",
	"日本語のテキスト",
	"mixed 混合 content",
	"emoji \U0001F30D line",
	"",
}

// generateLines produces a deterministic-count mix of faker sentences,
// unicode samples and empty lines. None of them contain a CRLF, so the
// output of a writer can be split back on the terminator.
func generateLines(n int) []string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		switch rand.Intn(4) {
		case 0:
			lines = append(lines, unicodeSamples[rand.Intn(len(unicodeSamples))])
		case 1:
			lines = append(lines, fmt.Sprintf("%s %d", faker.Word(), i))
		default:
			lines = append(lines, faker.Sentence())
		}
	}
	return lines
}
