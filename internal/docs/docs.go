// Package docs loads the laws corpus and splits it into per-law sections.
//
// The corpus is plain text in a numbered-outline form: a standalone "10."
// line opens law 10, the next paragraph is the law's name, and everything
// until the next bare number is its body. Subsections are numbered "10.1.",
// "10.1.1." and so on, either on their own line or leading a paragraph.
package docs

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Section is one law, formatted for indexing. Label doubles as the citation
// source shown to users.
type Section struct {
	LawID   string
	LawName string
	Label   string
	Text    string
}

var (
	// standalone outline markers: "10.", "10.1.", "10.1.1."
	markerPattern = regexp.MustCompile(`^\d+(\.\d+)*\.$`)
	// a bare law number opening a new law
	lawIDPattern = regexp.MustCompile(`^(\d+)\.\s*$`)
	// subsection number with optional trailing text
	subsectionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)+\.)\s*(.*)$`)
)

// Service reads the laws file from disk.
type Service struct {
	path   string
	logger *logrus.Logger
}

func NewService(path string, logger *logrus.Logger) *Service {
	return &Service{
		path:   path,
		logger: logger,
	}
}

// LoadSections reads and parses the corpus. An unparseable or empty corpus is
// an error: serving with zero laws indexed would answer every query from thin
// air.
func (s *Service) LoadSections() ([]Section, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read laws corpus: %w", err)
	}

	sections := Parse(string(raw))
	if len(sections) == 0 {
		return nil, fmt.Errorf("no laws parsed from %s", s.path)
	}

	s.logger.WithFields(logrus.Fields{
		"path":     s.path,
		"sections": len(sections),
	}).Info("Laws corpus parsed")

	return sections, nil
}

// Parse splits raw corpus text into law sections.
func Parse(raw string) []Section {
	paragraphs := normalizeLines(raw)

	type law struct {
		id    string
		name  string
		paras []string
	}

	var laws []law
	var current *law
	expectingName := false

	flush := func() {
		if current != nil && current.id != "" && current.name != "" && len(current.paras) > 0 {
			laws = append(laws, *current)
		}
	}

	for _, para := range paragraphs {
		if m := lawIDPattern.FindStringSubmatch(para); m != nil {
			flush()
			current = &law{id: m[1]}
			expectingName = true
			continue
		}

		if current == nil {
			continue
		}

		if expectingName {
			if name := strings.TrimSpace(para); name != "" {
				current.name = name
				expectingName = false
			}
			continue
		}

		current.paras = append(current.paras, para)
	}
	flush()

	sections := make([]Section, 0, len(laws))
	for _, l := range laws {
		sections = append(sections, Section{
			LawID:   l.id,
			LawName: l.name,
			Label:   fmt.Sprintf("Law %s - %s", l.id, l.name),
			Text:    formatBody(l.paras),
		})
	}

	return sections
}

// normalizeLines turns raw text into paragraphs: wrapped lines are joined,
// blank lines separate paragraphs, and standalone outline markers always form
// a paragraph of their own.
func normalizeLines(raw string) []string {
	var paragraphs []string
	var buffer []string

	flush := func() {
		if len(buffer) > 0 {
			paragraphs = append(paragraphs, strings.TrimSpace(strings.Join(buffer, " ")))
			buffer = buffer[:0]
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		if markerPattern.MatchString(line) {
			flush()
			paragraphs = append(paragraphs, line)
			continue
		}

		buffer = append(buffer, line)
	}
	flush()

	return paragraphs
}

// formatBody renders a law's paragraphs as one indexed string, indenting
// subsection numbers by their outline depth.
func formatBody(paras []string) string {
	var lines []string

	for _, para := range paras {
		m := subsectionPattern.FindStringSubmatch(para)
		if m == nil {
			// continuation text attaches to the previous line
			if len(lines) == 0 {
				lines = append(lines, para)
			} else {
				lines[len(lines)-1] += " " + para
			}
			continue
		}

		number := strings.TrimSuffix(m[1], ".")
		rest := strings.TrimSpace(m[2])

		depth := strings.Count(number, ".") + 1
		indent := strings.Repeat("  ", depth-1)
		if rest != "" {
			lines = append(lines, fmt.Sprintf("%s%s. %s", indent, number, rest))
		} else {
			lines = append(lines, fmt.Sprintf("%s%s.", indent, number))
		}
	}

	return strings.Join(lines, "\n")
}
