package seeder

import (
	"regexp"
	"strings"
)

// Normalizer turns block-level text scraped from a laws page into the
// canonical corpus format that the docs parser understands: every block on
// its own paragraph, law headings split into a bare "N." marker line followed
// by the law name.
type Normalizer struct {
	multiWhitespace *regexp.Regexp
	lawHeading      *regexp.Regexp
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		multiWhitespace: regexp.MustCompile(`\s+`),
		lawHeading:      regexp.MustCompile(`^(\d+)\.\s+(\S.*)$`),
	}
}

// Normalize renders scraped blocks as corpus text. Inner whitespace collapses
// to single spaces; empty blocks are dropped; a top-level "10. The Watch"
// heading becomes the two lines "10." and "The Watch". Subsection numbering
// inside a block ("10.1. ...") is left alone, the docs parser handles it.
func (n *Normalizer) Normalize(blocks []string) string {
	var paragraphs []string

	for _, block := range blocks {
		block = strings.TrimSpace(n.multiWhitespace.ReplaceAllString(block, " "))
		if block == "" {
			continue
		}

		if m := n.lawHeading.FindStringSubmatch(block); m != nil {
			paragraphs = append(paragraphs, m[1]+".", m[2])
			continue
		}

		paragraphs = append(paragraphs, block)
	}

	return strings.Join(paragraphs, "\n\n")
}
