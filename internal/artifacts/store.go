package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spigell/jobsai/internal/utils"
)

// Kind is a category of artifact with its own directory.
type Kind string

const (
	Profiles Kind = "profiles"
	Raw      Kind = "listings/raw"
	Scored   Kind = "listings/scored"
	Reports  Kind = "reports"
	Analyses Kind = "analyses"
	Letters  Kind = "letters"
)

var kinds = []Kind{Profiles, Raw, Scored, Reports, Analyses, Letters}

// Store writes artifacts under a single data directory. It assumes exclusive
// access: there is no locking and writes replace whole files.
type Store struct {
	Dir string
}

// NewStore creates the directory tree under dir.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "data"
	}

	for _, kind := range kinds {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", kind, err)
		}
	}

	return &Store{Dir: dir}, nil
}

// Path returns the location of a file of the given kind.
func (s *Store) Path(kind Kind, name string) string {
	return filepath.Join(s.Dir, string(kind), name)
}

// ProfileName is {ts}_skill_profile.json.
func ProfileName(run Run) string {
	return run.Stamp() + "_skill_profile.json"
}

// RawName is {ts}_{board}_{safe query}.json with the board lowercased.
func RawName(run Run, board, query string) string {
	return fmt.Sprintf("%s_%s_%s.json", run.Stamp(), strings.ToLower(board), utils.SafeName(query))
}

// ScoredName is {ts}_scored_jobs.json.
func ScoredName(run Run) string {
	return run.Stamp() + "_scored_jobs.json"
}

// ReportName is {ts}_job_report.txt.
func ReportName(run Run) string {
	return run.Stamp() + "_job_report.txt"
}

// AnalysisName is {ts}_job_analysis.txt.
func AnalysisName(run Run) string {
	return run.Stamp() + "_job_analysis.txt"
}

// LetterName is {ts}_cover_letter.docx.
func LetterName(run Run) string {
	return run.Stamp() + "_cover_letter.docx"
}

// WriteJSON encodes v with two-space indentation and returns the path.
func (s *Store) WriteJSON(kind Kind, name string, v any) (string, error) {
	path := s.Path(kind, name)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}

	return path, nil
}

// ReadJSON decodes the named file into v.
func (s *Store) ReadJSON(kind Kind, name string, v any) error {
	file, err := os.Open(s.Path(kind, name))
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(v)
}

// WriteText writes plain text and returns the path.
func (s *Store) WriteText(kind Kind, name, text string) (string, error) {
	path := s.Path(kind, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteBytes writes binary content and returns the path.
func (s *Store) WriteBytes(kind Kind, name string, data []byte) (string, error) {
	path := s.Path(kind, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// List returns the file names of a kind with the given suffix, sorted.
func (s *Store) List(kind Kind, suffix string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.Dir, string(kind)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	return names, nil
}

// Latest returns the lexicographically last file name of a kind, or "".
func (s *Store) Latest(kind Kind, suffix string) (string, error) {
	names, err := s.List(kind, suffix)
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[len(names)-1], nil
}
