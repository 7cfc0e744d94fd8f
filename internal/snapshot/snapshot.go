// Package snapshot reads and writes the timestamped JSON files that connect
// the pipeline stages.
package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned when no file matches a requested pattern.
var ErrNotFound = errors.New("snapshot not found")

const (
	stampLayout      = "20060102_150405"
	exportDateLayout = "2006-01-02T15:04:05.000000"
)

var codec = sonic.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

// Header is the common envelope prefix of every snapshot.
type Header struct {
	ExportDate string `json:"export_date"`
	Season     string `json:"season"`
	League     string `json:"league"`
}

// Store is a directory of snapshot files.
type Store struct {
	dir string
	now func() time.Time
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// WithClock replaces the clock used for stamps and export dates.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Stamp returns the filename timestamp for the current time.
func (s *Store) Stamp() string {
	return s.now().Format(stampLayout)
}

// Header builds an envelope header stamped with the current time.
func (s *Store) Header(season, league string) Header {
	return Header{
		ExportDate: s.now().Format(exportDateLayout),
		Season:     season,
		League:     league,
	}
}

// Filename returns "<dataset>_<stamp>.json".
func Filename(dataset, stamp string) string {
	return dataset + "_" + stamp + ".json"
}

// LatestFilename returns "<dataset>_latest.json".
func LatestFilename(dataset string) string {
	return dataset + "_latest.json"
}

// Path joins name onto the store directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Write encodes v as indented JSON into name. The file is replaced
// atomically so readers never observe a partial document.
func (s *Store) Write(name string, v any) (string, error) {
	data, err := codec.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", name)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output dir")
	}

	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "close %s", name)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "chmod %s", name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.Wrapf(err, "rename %s", name)
	}
	return path, nil
}

// Save writes v as "<dataset>_<stamp>.json".
func (s *Store) Save(dataset, stamp string, v any) (string, error) {
	return s.Write(Filename(dataset, stamp), v)
}

// SaveWithLatest writes v as "<dataset>_<stamp>.json" and as the
// "<dataset>_latest.json" alias. The timestamped path is returned.
func (s *Store) SaveWithLatest(dataset, stamp string, v any) (string, error) {
	path, err := s.Save(dataset, stamp, v)
	if err != nil {
		return "", err
	}
	if _, err := s.Write(LatestFilename(dataset), v); err != nil {
		return "", err
	}
	return path, nil
}

// Glob returns the files matching pattern, in ascending lexical order.
func (s *Store) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(s.Path(pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "glob %s", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// Latest returns the lexically last file matching pattern.
func (s *Store) Latest(pattern string) (string, error) {
	matches, err := s.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.Wrapf(ErrNotFound, "no files match %s", pattern)
	}
	return matches[len(matches)-1], nil
}

// Read decodes the JSON file at path into v.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.Mark(errors.Wrapf(err, "read %s", filepath.Base(path)), ErrNotFound)
		}
		return errors.Wrapf(err, "read %s", filepath.Base(path))
	}
	if err := codec.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decode %s", filepath.Base(path))
	}
	return nil
}

// ReadName decodes the named file in the store.
func (s *Store) ReadName(name string, v any) error {
	return Read(s.Path(name), v)
}

// LoadLatest decodes the lexically last file matching pattern into v and
// returns its path.
func (s *Store) LoadLatest(pattern string, v any) (string, error) {
	path, err := s.Latest(pattern)
	if err != nil {
		return "", err
	}
	if err := Read(path, v); err != nil {
		return "", err
	}
	return path, nil
}
