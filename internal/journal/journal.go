// Package journal is a local, versioned cache of daily logs. Each day is one
// JSON file in a git repository, so every change to a day's log is a commit.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/dsablic/healthlog/internal/model"
)

// ErrNotFound is returned when the journal has no log for a date.
var ErrNotFound = errors.New("journal: no log for that date")

const logsDir = "logs"

// Store reads and writes the journal repository at a directory.
type Store struct {
	dir  string
	repo *git.Repository
	now  func() time.Time
}

// Revision is one committed version of a day's log, newest first.
type Revision struct {
	Hash    string
	When    time.Time
	Message string
	Entry   model.DailyLogEntry
}

// Open opens the journal at dir, initializing an empty repository if none
// exists.
func Open(dir string) (*Store, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Store{dir: dir, repo: repo, now: time.Now}, nil
}

// Dir returns the journal's working directory.
func (s *Store) Dir() string {
	return s.dir
}

// relPath is the slash-separated path of a day's file inside the repository.
func relPath(d model.Day) string {
	return path.Join(logsDir, d.String()+".json")
}

// Save writes entry and commits it. It reports whether anything changed;
// saving an identical entry creates no commit.
func (s *Store) Save(entry model.DailyLogEntry, message string) (bool, error) {
	n, err := s.SaveAll([]model.DailyLogEntry{entry}, message)
	return n > 0, err
}

// SaveAll writes entries in a single commit and returns how many files
// changed. Duplicate dates keep the last entry. If any entry has no date
// nothing is written.
func (s *Store) SaveAll(entries []model.DailyLogEntry, message string) (int, error) {
	for _, e := range entries {
		if e.Date.IsZero() {
			return 0, fmt.Errorf("journal: entry has no date")
		}
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return 0, fmt.Errorf("journal worktree: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(s.dir, logsDir), 0o700); err != nil {
		return 0, fmt.Errorf("create logs dir: %w", err)
	}

	for _, e := range model.Dedupe(entries) {
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", e.Date, err)
		}
		rel := relPath(e.Date)
		if err := os.WriteFile(filepath.Join(s.dir, filepath.FromSlash(rel)), append(data, '\n'), 0o600); err != nil {
			return 0, fmt.Errorf("write %s: %w", rel, err)
		}
		if _, err := wt.Add(rel); err != nil {
			return 0, fmt.Errorf("stage %s: %w", rel, err)
		}
	}

	status, err := wt.Status()
	if err != nil {
		return 0, fmt.Errorf("journal status: %w", err)
	}
	changed := 0
	for _, st := range status {
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if message == "" {
		message = fmt.Sprintf("Update %d log(s)", changed)
	}
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "healthlog",
			Email: "healthlog@localhost",
			When:  s.now(),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("commit journal: %w", err)
	}
	return changed, nil
}

// Get returns the current log for d.
func (s *Store) Get(d model.Day) (model.DailyLogEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(relPath(d))))
	if errors.Is(err, os.ErrNotExist) {
		return model.DailyLogEntry{}, ErrNotFound
	}
	if err != nil {
		return model.DailyLogEntry{}, fmt.Errorf("read %s: %w", d, err)
	}
	return decode(data, d)
}

// All returns every log in the journal, oldest first.
func (s *Store) All() ([]model.DailyLogEntry, error) {
	return s.Range(model.Day{}, model.Day{})
}

// Range returns logs with dates in [from, to], oldest first. A zero bound is
// open.
func (s *Store) Range(from, to model.Day) ([]model.DailyLogEntry, error) {
	files, err := os.ReadDir(filepath.Join(s.dir, logsDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}

	var out []model.DailyLogEntry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		d, err := model.ParseDay(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		if (!from.IsZero() && d.Before(from.Time)) || (!to.IsZero() && d.After(to.Time)) {
			continue
		}
		e, err := s.Get(d)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

// Revisions walks the commit log and returns every committed version of d's
// log, newest first. Commits that deleted the file are skipped.
func (s *Store) Revisions(d model.Day) ([]Revision, error) {
	head, err := s.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("journal head: %w", err)
	}

	rel := relPath(d)
	iter, err := s.repo.Log(&git.LogOptions{
		From:     head.Hash(),
		Order:    git.LogOrderCommitterTime,
		FileName: &rel,
	})
	if err != nil {
		return nil, fmt.Errorf("journal log: %w", err)
	}

	var revs []Revision
	err = iter.ForEach(func(c *object.Commit) error {
		f, err := c.File(rel)
		if errors.Is(err, object.ErrFileNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		contents, err := f.Contents()
		if err != nil {
			return err
		}
		e, err := decode([]byte(contents), d)
		if err != nil {
			return err
		}
		revs = append(revs, Revision{
			Hash:    c.Hash.String(),
			When:    c.Author.When,
			Message: strings.TrimSpace(c.Message),
			Entry:   e,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk journal log: %w", err)
	}
	if len(revs) == 0 {
		return nil, ErrNotFound
	}
	return revs, nil
}

func decode(data []byte, d model.Day) (model.DailyLogEntry, error) {
	var e model.DailyLogEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return model.DailyLogEntry{}, fmt.Errorf("decode %s: %w", d, err)
	}
	if e.Date.IsZero() {
		e.Date = d
	}
	return e, nil
}
