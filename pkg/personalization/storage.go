package personalization

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Profile is the locally persisted interest profile for one visitor.
type Profile struct {
	// Clicks accumulates weight per category id. ClickOrder records the
	// first-occurrence order of keys for stable tie-breaking.
	Clicks     map[string]float64 `json:"clicks"`
	ClickOrder []string           `json:"clickOrder"`

	LastClicks     []InteractionEvent `json:"lastClicks"`
	ExternalClicks []ExternalClick    `json:"externalClicks"`

	SessionStart time.Time `json:"sessionStart"`
	TotalVisits  int       `json:"totalVisits"`
}

// NewProfile returns the default empty profile.
func NewProfile() *Profile {
	return &Profile{
		Clicks:       make(map[string]float64),
		SessionStart: time.Now(),
		TotalVisits:  1,
	}
}

// ProfileStore isolates profile persistence behind a small transactional
// surface so the tracker never touches storage details directly.
type ProfileStore interface {
	// Load returns the stored profile, or the default profile when nothing
	// is stored yet.
	Load() (*Profile, error)

	// Mutate applies fn to the stored profile under read-modify-write and
	// persists the result.
	Mutate(fn func(*Profile)) error

	// Save replaces the stored profile.
	Save(profile *Profile) error
}

// MemoryProfileStore keeps the profile in process memory only.
type MemoryProfileStore struct {
	mu      sync.Mutex
	profile *Profile
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{}
}

func (m *MemoryProfileStore) Load() (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		m.profile = NewProfile()
	}
	return m.profile, nil
}

func (m *MemoryProfileStore) Mutate(fn func(*Profile)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		m.profile = NewProfile()
	}
	fn(m.profile)
	return nil
}

func (m *MemoryProfileStore) Save(profile *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = profile
	return nil
}

// FileProfileStore persists the profile as JSON on disk. Writes go through
// a temp file and rename so a crash never leaves a torn profile.
type FileProfileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileProfileStore(path string) *FileProfileStore {
	return &FileProfileStore{path: path}
}

func (f *FileProfileStore) Load() (*Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileProfileStore) load() (*Profile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewProfile(), nil
		}
		return nil, err
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	if profile.Clicks == nil {
		profile.Clicks = make(map[string]float64)
	}
	return &profile, nil
}

func (f *FileProfileStore) Mutate(fn func(*Profile)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, err := f.load()
	if err != nil {
		return err
	}
	fn(profile)
	return f.save(profile)
}

func (f *FileProfileStore) Save(profile *Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(profile)
}

func (f *FileProfileStore) save(profile *Profile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
