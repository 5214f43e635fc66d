//go:build ignore

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muurk/devscan/internal/fingerprint"
)

// Statistics tracks classification results
type Statistics struct {
	TotalFiles   int
	Identified   int
	Unidentified int
	Variants     map[string]int
	Unmatched    []string
	ReadFailures []string
}

// Saved landing pages are named after the host they came from, e.g.
// 10.208.4.17.html, so templated fingerprints can be checked too.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: classify_pages <directory-or-file>")
		fmt.Println("Example: classify_pages captures/")
		fmt.Println("         classify_pages captures/10.208.4.17.html")
		os.Exit(1)
	}

	path := os.Args[1]

	if err := fingerprint.DefaultTable.Validate(); err != nil {
		fmt.Printf("Fingerprint table is inconsistent:\n%v\n", err)
		os.Exit(1)
	}

	stats := Statistics{
		Variants: make(map[string]int),
	}

	// Check if path is directory or file
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Error accessing path: %v\n", err)
		os.Exit(1)
	}

	var files []string
	if info.IsDir() {
		pattern := filepath.Join(path, "*.htm*")
		files, err = filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("Error finding pages: %v\n", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Printf("No saved pages found in %s\n", path)
			os.Exit(1)
		}
	} else {
		files = []string{path}
	}

	fmt.Printf("=== devscan Page Classifier ===\n")
	fmt.Printf("Pages to classify: %d\n\n", len(files))

	for _, file := range files {
		classifyFile(file, &stats)
	}

	printStatistics(&stats)
}

func classifyFile(filename string, stats *Statistics) {
	stats.TotalFiles++

	data, err := os.ReadFile(filename)
	if err != nil {
		stats.ReadFailures = append(stats.ReadFailures, fmt.Sprintf("%s: %v", filename, err))
		return
	}

	base := filepath.Base(filename)
	addr := strings.TrimSuffix(base, filepath.Ext(base))

	variant := fingerprint.Classify(addr, string(data))
	stats.Variants[variant.String()]++
	if fingerprint.Identified(variant) {
		stats.Identified++
		fmt.Printf("%s:%s\n", addr, variant)
		return
	}
	stats.Unidentified++
	stats.Unmatched = append(stats.Unmatched, filename)
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("CLASSIFICATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Pages Processed:    %d\n", stats.TotalFiles)
	if classified := stats.Identified + stats.Unidentified; classified > 0 {
		fmt.Printf("Identified:         %d (%.2f%%)\n", stats.Identified,
			float64(stats.Identified)/float64(classified)*100)
		fmt.Printf("Unidentified:       %d (%.2f%%)\n", stats.Unidentified,
			float64(stats.Unidentified)/float64(classified)*100)
	}

	fmt.Printf("\n----------------------------------------\n")
	fmt.Printf("VARIANT DISTRIBUTION\n")
	fmt.Printf("----------------------------------------\n")
	names := make([]string, 0, len(stats.Variants))
	for name := range stats.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-45s %d\n", name, stats.Variants[name])
	}

	if len(stats.Unmatched) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("UNMATCHED PAGES (%d total)\n", len(stats.Unmatched))
		fmt.Printf("----------------------------------------\n")

		// Show first 10
		maxShow := 10
		if len(stats.Unmatched) > maxShow {
			fmt.Printf("(Showing first %d of %d)\n", maxShow, len(stats.Unmatched))
		}
		for i, file := range stats.Unmatched {
			if i >= maxShow {
				break
			}
			fmt.Printf("  %s\n", file)
		}
	}

	for _, failure := range stats.ReadFailures {
		fmt.Printf("Read error: %s\n", failure)
	}

	fmt.Printf("\n========================================\n")
	if stats.Unidentified == 0 && len(stats.ReadFailures) == 0 {
		fmt.Printf("✅ All pages matched a fingerprint\n")
	} else {
		fmt.Printf("⚠️  %d page(s) matched no fingerprint\n", stats.Unidentified)
	}
	fmt.Printf("========================================\n")
}
