// Package ledger persists the set of tracks that were already downloaded so
// re-runs only fetch what is new.
//
// The file is a JSON object mapping each track permalink to a snapshot of
// the track. Keys are written in sorted order with a four space indent so
// the file diffs cleanly and can be edited by hand. A missing file is an
// empty ledger; an unreadable one is reported but also treated as empty.
package ledger

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/tidwall/pretty"

	ioutils "github.com/handiism/soundcloud-downloader/internal/io"
	"github.com/handiism/soundcloud-downloader/internal/model"
)

// Entry is the stored snapshot of a downloaded track.
type Entry struct {
	Username    string  `json:"username"`
	Title       string  `json:"title"`
	Filename    string  `json:"filename"`
	Permalink   string  `json:"permalink"`
	Description *string `json:"description"`
	StreamURL   *string `json:"stream_url"`
	DownloadURL *string `json:"download_url"`
	ArtworkURL  *string `json:"artwork_url"`
}

// EntryFrom copies the fields of item into a new Entry.
func EntryFrom(item *model.TrackItem) Entry {
	return Entry{
		Username:    item.Username,
		Title:       item.Title,
		Filename:    item.Filename,
		Permalink:   item.Permalink,
		Description: clone(item.Description),
		StreamURL:   clone(item.StreamURL),
		DownloadURL: clone(item.DownloadURL),
		ArtworkURL:  clone(item.ArtworkURL),
	}
}

// LoadError reports a ledger file that exists but could not be read or
// decoded. Load still returns a usable empty ledger alongside it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load ledger %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SaveError reports a failed write. Entries added since the last successful
// save will be downloaded again on the next run.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save ledger %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Ledger is the in-memory completion set bound to a file path.
//
// Entries are only ever added during a run. Ledger is not safe for
// concurrent use.
type Ledger struct {
	path    string
	entries map[string]Entry
}

// New returns an empty ledger that saves to path.
func New(path string) *Ledger {
	return &Ledger{path: path, entries: make(map[string]Entry)}
}

// Load reads the ledger at path.
//
// A missing file yields an empty ledger and a nil error. A file that cannot
// be read or parsed yields an empty ledger and a *LoadError; callers log it
// and carry on.
func Load(path string) (*Ledger, error) {
	l := New(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l, nil
		}
		return l, &LoadError{Path: path, Err: err}
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return l, &LoadError{Path: path, Err: err}
	}
	for k, v := range entries {
		l.entries[k] = v
	}

	return l, nil
}

// Path returns the file the ledger saves to.
func (l *Ledger) Path() string {
	return l.path
}

// Contains reports whether permalink was already downloaded.
func (l *Ledger) Contains(permalink string) bool {
	_, ok := l.entries[permalink]
	return ok
}

// Get returns the entry stored for permalink.
func (l *Ledger) Get(permalink string) (Entry, bool) {
	e, ok := l.entries[permalink]
	return e, ok
}

// Put records a downloaded track under its permalink.
func (l *Ledger) Put(item *model.TrackItem) {
	l.entries[item.Permalink] = EntryFrom(item)
}

// Len returns the number of recorded tracks.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Save writes the ledger atomically: the data goes to a temporary file in
// the same directory which then replaces the ledger file.
func (l *Ledger) Save() error {
	data, err := Encode(l.entries)
	if err != nil {
		return &SaveError{Path: l.path, Err: err}
	}
	if err := ioutils.WriteFileAtomic(l.path, data); err != nil {
		return &SaveError{Path: l.path, Err: err}
	}
	return nil
}

// Encode renders entries as indented JSON with sorted keys.
func Encode(entries map[string]Entry) ([]byte, error) {
	data, err := json.MarshalWithOption(entries, json.DisableHTMLEscape())
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(data, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "    ",
		SortKeys: true,
	}), nil
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
