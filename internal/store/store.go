package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const (
	keyQueues       = "queues"
	keyMessageFiles = "message-files"
	keyView         = "view"

	tempDirName = ".tmp"
)

// ErrCorrupt is returned when a persisted list cannot be decoded.
var ErrCorrupt = errors.New("store: corrupt data")

// Store is the persisted set of bookmarks, message-file associations and view
// toggles. Every real mutation is written to disk before the call returns and
// then announced to subscribers. Duplicate adds and missing removes are no-ops:
// nothing is written and nobody is notified.
type Store struct {
	mu  sync.Mutex
	d   *diskv.Diskv
	dir string

	queues []QueueBookmark
	files  []MessageFile
	view   ViewState

	subMu       sync.Mutex
	subscribers []func(Event)
}

// Open loads the store rooted at dir, creating it when missing.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store: directory is empty")
	}
	tmp := filepath.Join(dir, tempDirName)
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	s := &Store{
		dir: dir,
		d: diskv.New(diskv.Options{
			BasePath:  dir,
			Transform: func(string) []string { return []string{} },
			// Writes land in TempDir first and are renamed into place.
			TempDir: tmp,
			// Another process may write the same directory; reads must hit disk.
			CacheSizeMax: 0,
		}),
	}
	queues, files, view, err := s.readAll()
	if err != nil {
		return nil, err
	}
	s.queues, s.files, s.view = queues, files, view
	return s, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Subscribe registers fn to be called after every persisted change.
func (s *Store) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	subs := slices.Clone(s.subscribers)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Queues returns a copy of the bookmark list in insertion order.
func (s *Store) Queues() []QueueBookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.queues)
}

// MessageFiles returns a copy of all message-file associations.
func (s *Store) MessageFiles() []MessageFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSlice(s.files)
}

// MessageFilesFor returns the associations for one queue in insertion order.
func (s *Store) MessageFilesFor(region, queueID string) []MessageFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []MessageFile
	for _, f := range s.files {
		if f.Region == region && f.QueueID == queueID {
			out = append(out, f)
		}
	}
	return out
}

// View returns a copy of the persisted view toggles.
func (s *Store) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.clone()
}

// IsFavorite reports whether ref is marked favorite.
func (s *Store) IsFavorite(ref NodeRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.view.Favorites, ref)
}

// IsHidden reports whether ref is marked hidden.
func (s *Store) IsHidden(ref NodeRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.view.Hidden, ref)
}

// AddQueue bookmarks a queue. It reports whether the store changed.
func (s *Store) AddQueue(region, queueID string) (bool, error) {
	b := QueueBookmark{Region: region, QueueID: queueID}

	s.mu.Lock()
	if slices.Contains(s.queues, b) {
		s.mu.Unlock()
		return false, nil
	}
	next := append(cloneSlice(s.queues), b)
	if err := s.write(keyQueues, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.queues = next
	s.mu.Unlock()

	s.notify(Event{Kind: EventQueues})
	return true, nil
}

// RemoveQueue drops a bookmark together with the favorite and hidden marks of
// the queue and its message files. Message-file associations are kept so that
// re-adding the queue restores them.
func (s *Store) RemoveQueue(region, queueID string) (bool, error) {
	b := QueueBookmark{Region: region, QueueID: queueID}

	s.mu.Lock()
	idx := slices.Index(s.queues, b)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Delete(cloneSlice(s.queues), idx, idx+1)

	view := s.view.clone()
	belongs := func(r NodeRef) bool { return r.Region == region && r.QueueID == queueID }
	view.Favorites = slices.DeleteFunc(view.Favorites, belongs)
	view.Hidden = slices.DeleteFunc(view.Hidden, belongs)
	viewChanged := !view.equal(s.view)

	if err := s.write(keyQueues, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	if viewChanged {
		if err := s.write(keyView, view); err != nil {
			_ = s.write(keyQueues, s.queues)
			s.mu.Unlock()
			return false, err
		}
		s.view = view
	}
	s.queues = next
	s.mu.Unlock()

	s.notify(Event{Kind: EventQueues})
	return true, nil
}

// AddMessageFile associates path with a queue.
func (s *Store) AddMessageFile(region, queueID, path string) (bool, error) {
	f := MessageFile{Region: region, QueueID: queueID, Path: path}

	s.mu.Lock()
	if slices.Contains(s.files, f) {
		s.mu.Unlock()
		return false, nil
	}
	next := append(cloneSlice(s.files), f)
	if err := s.write(keyMessageFiles, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.files = next
	s.mu.Unlock()

	s.notify(Event{Kind: EventMessageFiles})
	return true, nil
}

// RemoveMessageFile removes every association matching all three fields
// together with the file's favorite and hidden marks. Both lists are written
// or neither is.
func (s *Store) RemoveMessageFile(region, queueID, path string) (bool, error) {
	f := MessageFile{Region: region, QueueID: queueID, Path: path}
	ref := NodeRef{Region: region, QueueID: queueID, Path: path}

	s.mu.Lock()
	if !slices.Contains(s.files, f) {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.DeleteFunc(cloneSlice(s.files), func(x MessageFile) bool { return x == f })

	view := s.view.clone()
	view.Favorites = setMember(view.Favorites, ref, false)
	view.Hidden = setMember(view.Hidden, ref, false)
	viewChanged := !view.equal(s.view)

	if err := s.write(keyMessageFiles, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	if viewChanged {
		if err := s.write(keyView, view); err != nil {
			_ = s.write(keyMessageFiles, s.files)
			s.mu.Unlock()
			return false, err
		}
		s.view = view
	}
	s.files = next
	s.mu.Unlock()

	s.notify(Event{Kind: EventMessageFiles})
	return true, nil
}

// SetFavorite marks or unmarks ref as favorite.
func (s *Store) SetFavorite(ref NodeRef, on bool) (bool, error) {
	return s.updateView(func(v *ViewState) { v.Favorites = setMember(v.Favorites, ref, on) })
}

// SetHidden marks or unmarks ref as hidden.
func (s *Store) SetHidden(ref NodeRef, on bool) (bool, error) {
	return s.updateView(func(v *ViewState) { v.Hidden = setMember(v.Hidden, ref, on) })
}

// SetFilter stores the free-text filter string.
func (s *Store) SetFilter(filter string) (bool, error) {
	return s.updateView(func(v *ViewState) { v.Filter = filter })
}

// SetShowOnlyFavorites stores the show-only-favorites toggle.
func (s *Store) SetShowOnlyFavorites(on bool) (bool, error) {
	return s.updateView(func(v *ViewState) { v.ShowOnlyFavorites = on })
}

// SetShowHidden stores the show-hidden toggle.
func (s *Store) SetShowHidden(on bool) (bool, error) {
	return s.updateView(func(v *ViewState) { v.ShowHidden = on })
}

func (s *Store) updateView(apply func(*ViewState)) (bool, error) {
	s.mu.Lock()
	next := s.view.clone()
	apply(&next)
	if next.equal(s.view) {
		s.mu.Unlock()
		return false, nil
	}
	if err := s.write(keyView, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.view = next
	s.mu.Unlock()

	s.notify(Event{Kind: EventView})
	return true, nil
}

func setMember(list []NodeRef, ref NodeRef, on bool) []NodeRef {
	has := slices.Contains(list, ref)
	switch {
	case on && !has:
		return append(list, ref)
	case !on && has:
		return slices.DeleteFunc(list, func(r NodeRef) bool { return r == ref })
	default:
		return list
	}
}

// Reload re-reads the store from disk. Subscribers receive EventReloaded only
// when the on-disk state differs from memory. It reports whether anything changed.
// Local writes also hold s.mu, so the read never sees a half-applied mutation.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	queues, files, view, err := s.readAll()
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	same := slices.Equal(queues, s.queues) &&
		slices.Equal(files, s.files) &&
		view.equal(s.view)
	if !same {
		s.queues, s.files, s.view = queues, files, view
	}
	s.mu.Unlock()

	if same {
		return false, nil
	}
	s.notify(Event{Kind: EventReloaded})
	return true, nil
}

func (s *Store) readAll() ([]QueueBookmark, []MessageFile, ViewState, error) {
	var (
		queues []QueueBookmark
		files  []MessageFile
		view   ViewState
	)
	if err := s.read(keyQueues, &queues); err != nil {
		return nil, nil, ViewState{}, err
	}
	if err := s.read(keyMessageFiles, &files); err != nil {
		return nil, nil, ViewState{}, err
	}
	if err := s.read(keyView, &view); err != nil {
		return nil, nil, ViewState{}, err
	}
	return cloneSlice(queues), cloneSlice(files), view.clone(), nil
}

func (s *Store) read(key string, dest any) error {
	if !s.d.Has(key) {
		return nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return fmt.Errorf("store: read %s: %w", key, err)
	}
	if len(val) == 0 {
		return nil
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

func (s *Store) write(key string, value any) error {
	val, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := s.d.Write(key, val); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}
