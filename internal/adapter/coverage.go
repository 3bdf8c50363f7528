package adapter

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"golang.org/x/tools/cover"
)

// readLineHits parses a Go coverprofile and returns, for the named source
// file, every 1-based line that was reached at least once together with the
// highest block count covering it. A missing profile means nothing ran.
func readLineHits(profilePath, sourceFile string) (map[int]int, error) {
	hits := map[int]int{}

	if _, err := os.Stat(profilePath); errors.Is(err, os.ErrNotExist) {
		return hits, nil
	}

	profiles, err := cover.ParseProfiles(profilePath)
	if err != nil {
		return nil, fmt.Errorf("parse coverprofile %s: %w", profilePath, err)
	}

	for _, profile := range profiles {
		if !matchesSourceFile(profile.FileName, sourceFile) {
			continue
		}

		for _, block := range profile.Blocks {
			if block.Count <= 0 {
				continue
			}

			for line := block.StartLine; line <= block.EndLine; line++ {
				if block.Count > hits[line] {
					hits[line] = block.Count
				}
			}
		}
	}

	return hits, nil
}

// matchesSourceFile reports whether a profile entry (import-path qualified,
// e.g. genfix.local/counter/counter.go) refers to sourceFile.
func matchesSourceFile(profileFile, sourceFile string) bool {
	if profileFile == sourceFile {
		return true
	}

	return strings.HasSuffix(profileFile, "/"+sourceFile) && path.Base(profileFile) == sourceFile
}
