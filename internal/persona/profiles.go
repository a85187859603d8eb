package persona

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"haru/internal/logging"
	"haru/internal/types"
)

// MaxActivePersonas caps how many personas join one turn. Selection order in
// the file matters: the first active persona is the privileged action owner.
const MaxActivePersonas = 4

// profilesFile is the on-disk shape of the persona YAML file.
type profilesFile struct {
	Personas []types.Persona `yaml:"personas"`
}

// ProfileStore loads persona profiles from a YAML file and hot-reloads them
// when the file changes. Reloads only swap the cached profile slice; they
// never touch a session's pending action or in-flight history.
type ProfileStore struct {
	path string

	mu       sync.RWMutex
	personas []types.Persona

	sf      singleflight.Group
	watcher *fsnotify.Watcher
}

// NewProfileStore reads the profile file at path. A missing file yields a
// single built-in default persona rather than an error.
func NewProfileStore(path string) (*ProfileStore, error) {
	s := &ProfileStore{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultPersona is the built-in persona used when no profile file exists.
func DefaultPersona() types.Persona {
	return types.Persona{
		ID:      "haru",
		Name:    "하루",
		Profile: "다정하고 간결하게 말하는 일정 관리 비서입니다. 사용자의 캘린더, 할 일, 일기를 돕습니다.",
		Active:  true,
	}
}

func (s *ProfileStore) reload() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.mu.Lock()
		s.personas = []types.Persona{DefaultPersona()}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read personas %s: %w", s.path, err)
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse personas %s: %w", s.path, err)
	}
	if len(f.Personas) == 0 {
		f.Personas = []types.Persona{DefaultPersona()}
	}

	s.mu.Lock()
	s.personas = f.Personas
	s.mu.Unlock()
	logging.Personas("profiles loaded: %d personas from %s", len(f.Personas), s.path)
	return nil
}

// Active returns the active personas in file order, capped at
// MaxActivePersonas.
func (s *ProfileStore) Active() []types.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Persona, 0, MaxActivePersonas)
	for _, p := range s.personas {
		if !p.Active {
			continue
		}
		out = append(out, p)
		if len(out) == MaxActivePersonas {
			break
		}
	}
	return out
}

// Watch reloads profiles in the background when the file changes, until ctx
// is done. Rapid editor save bursts are deduplicated through singleflight.
// Reload failures keep the previous profiles and log a warning.
func (s *ProfileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files on save, which would
	// otherwise drop a direct file watch.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}
	s.watcher = watcher

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				s.refresh()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.PersonasWarn("profile watcher error: %v", err)
			}
		}
	}()
	return nil
}

// refresh runs one deduplicated reload.
func (s *ProfileStore) refresh() {
	_, _, _ = s.sf.Do("reload", func() (any, error) {
		// Let the editor finish writing before reading.
		time.Sleep(50 * time.Millisecond)
		if err := s.reload(); err != nil {
			logging.PersonasWarn("profile reload failed, keeping previous: %v", err)
		}
		return nil, nil
	})
}
