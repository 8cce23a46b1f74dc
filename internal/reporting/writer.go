package reporting

import (
	"fmt"
	"os"
	"path/filepath"
)

// Report file names.
const (
	MarkdownFile       = "REPORT.md"
	ProfilesFile       = "mean_profiles.csv"
	ProfileSummaryFile = "profile_summary.csv"
	GroupsFile         = "groups.csv"
)

// WriteFiles writes the report files into dir and returns their paths.
// CSV files are only written when they have content.
func WriteFiles(dir string, r *Report, profiles []ProfileEntry) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	files := map[string]string{MarkdownFile: RenderMarkdown(r)}
	if len(profiles) > 0 {
		files[ProfilesFile] = RenderProfilesCSV(profiles)
		files[ProfileSummaryFile] = RenderProfileSummaryCSV(r.Profiles)
	}
	if len(r.Groups) > 0 {
		files[GroupsFile] = RenderGroupsCSV(r.Groups)
	}

	var written []string
	for _, name := range []string{MarkdownFile, ProfilesFile, ProfileSummaryFile, GroupsFile} {
		content, ok := files[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
