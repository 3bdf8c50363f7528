package adapter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	m "genfix.dev/pkg/genfix/internal/model"
)

const (
	reportFileName = "report.yaml"
	patchFileName  = "patch.diff"
)

// ReportStore persists the outcome of a repair run and reads it back.
type ReportStore interface {
	// SaveRepair writes the final program, the test suite, the patch and the
	// YAML report into <out>/<name>_patches/<n>_succeeded (or _failed).
	SaveRepair(out m.Path, project m.Project, result m.RepairResult, report m.RepairReport) (m.Path, error)

	// LoadReport reads a report from a result directory or a report.yaml path.
	LoadReport(path m.Path) (m.RepairReport, error)
}

// LocalReportStore stores reports on the local filesystem.
type LocalReportStore struct {
	fs SourceFSAdapter
}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore(fs SourceFSAdapter) *LocalReportStore {
	return &LocalReportStore{fs: fs}
}

// SaveRepair writes one result directory and returns its path.
func (s *LocalReportStore) SaveRepair(out m.Path, project m.Project, result m.RepairResult, report m.RepairReport) (m.Path, error) {
	patchesDir := s.fs.JoinPath(string(out), project.Identity.Name+"_patches")
	if err := s.fs.MkdirAll(patchesDir, 0o750); err != nil {
		return "", fmt.Errorf("create %s: %w", patchesDir, err)
	}

	suffix := "failed"
	if result.Repaired {
		suffix = "succeeded"
	}

	dir, err := s.fs.NextIndexedDir(patchesDir, suffix)
	if err != nil {
		return "", fmt.Errorf("allocate result directory: %w", err)
	}

	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	files := []struct {
		name    string
		content []byte
	}{
		{project.Identity.SourceFile(), JoinLines(result.Source)},
		{project.Identity.TestFile(), JoinLines(project.Suite.Lines)},
		{patchFileName, []byte(result.Diff)},
		{reportFileName, data},
	}

	for _, f := range files {
		if err := s.fs.WriteFile(s.fs.JoinPath(string(dir), f.name), f.content, 0o600); err != nil {
			return "", fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	return dir, nil
}

// LoadReport reads a stored report.
func (s *LocalReportStore) LoadReport(path m.Path) (m.RepairReport, error) {
	target := path
	if !strings.HasSuffix(string(path), ".yaml") && !strings.HasSuffix(string(path), ".yml") {
		target = s.fs.JoinPath(string(path), reportFileName)
	}

	data, err := s.fs.ReadFile(target)
	if err != nil {
		return m.RepairReport{}, fmt.Errorf("read %s: %w", target, err)
	}

	var report m.RepairReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.RepairReport{}, fmt.Errorf("decode %s: %w", target, err)
	}

	return report, nil
}
