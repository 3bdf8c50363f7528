package domain

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"

	"genfix.dev/pkg/genfix/internal/adapter"
	m "genfix.dev/pkg/genfix/internal/model"
)

// UnifiedDiff renders the change from before to after as a unified diff of
// the program file. Identical sources give an empty string.
func UnifiedDiff(id m.Identity, before, after []string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(adapter.JoinLines(before))),
		B:        difflib.SplitLines(string(adapter.JoinLines(after))),
		FromFile: "a/" + id.SourceFile(),
		ToFile:   "b/" + id.SourceFile(),
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("render diff: %w", err)
	}

	return text, nil
}

// DiffStats counts hunks and changed lines of a unified diff.
func DiffStats(unified string) (m.PatchStats, error) {
	if strings.TrimSpace(unified) == "" {
		return m.PatchStats{}, nil
	}

	fileDiff, err := diff.ParseFileDiff([]byte(unified))
	if err != nil {
		return m.PatchStats{}, fmt.Errorf("parse diff: %w", err)
	}

	// go-diff pairs a removed and an added line into one change.
	stat := fileDiff.Stat()

	stats := m.PatchStats{
		Hunks:   len(fileDiff.Hunks),
		Added:   int(stat.Added + stat.Changed),
		Removed: int(stat.Deleted + stat.Changed),
	}

	return stats, nil
}
