package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/westeros-labs/lawsearch/internal/docs"
	"github.com/westeros-labs/lawsearch/internal/seeder"
	"github.com/westeros-labs/lawsearch/pkg/utils"
)

// Command line flags
var (
	source   = flag.String("source", "", "URL of the laws page to fetch")
	selector = flag.String("selector", "body", "CSS selector of the content element")
	out      = flag.String("out", "docs/laws.txt", "Path of the corpus file to write")
	dryRun   = flag.Bool("dry-run", false, "Don't write the corpus file, just report what was parsed")
	verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	timeout  = flag.Duration("timeout", 30*time.Second, "Request timeout")
)

func main() {
	flag.Parse()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	logger := utils.GetLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *source == "" {
		logger.Fatal("-source URL is required")
	}

	logger.WithField("source", *source).Info("Fetching laws corpus...")

	collector := colly.NewCollector(
		colly.UserAgent("lawsearch-seeder/1.0"),
	)
	collector.SetRequestTimeout(*timeout)

	var blocks []string
	collector.OnHTML(*selector, func(e *colly.HTMLElement) {
		e.DOM.Find("p, h1, h2, h3, h4, li").Each(func(_ int, s *goquery.Selection) {
			blocks = append(blocks, s.Text())
		})
	})

	var fetchErr error
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(*source); err != nil {
		logger.WithError(err).Fatal("Failed to fetch laws page")
	}
	if fetchErr != nil {
		logger.WithError(fetchErr).Fatal("Failed to fetch laws page")
	}
	if len(blocks) == 0 {
		logger.WithField("selector", *selector).Fatal("No content blocks found on the laws page")
	}

	corpus := seeder.NewNormalizer().Normalize(blocks)

	// Refuse to write a corpus the server could not index.
	sections := docs.Parse(corpus)
	if len(sections) == 0 {
		logger.Fatal("Fetched page did not parse into any laws, corpus not written")
	}

	logger.WithFields(logrus.Fields{
		"blocks": len(blocks),
		"laws":   len(sections),
	}).Info("Laws corpus parsed")

	if *dryRun {
		for _, section := range sections {
			logger.WithFields(logrus.Fields{
				"label": section.Label,
				"chars": len(section.Text),
			}).Info("DRY RUN: would write law")
		}
		return
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create output directory")
	}
	if err := os.WriteFile(*out, []byte(corpus+"\n"), 0o644); err != nil {
		logger.WithError(err).Fatal("Failed to write corpus file")
	}

	logger.WithField("path", *out).Info("Laws corpus written")
}
