package profile

import "context"

const settingsKey = "settings"

// Preferences are the player's audio toggles. Both default to on.
type Preferences struct {
	Sound  bool `json:"sound"`
	Volume bool `json:"volume"`
}

// Settings persists the player's Preferences.
type Settings struct {
	store *Store
}

// NewSettings returns settings persisted in s.
func NewSettings(s *Store) *Settings { return &Settings{store: s} }

// Load returns the stored preferences, or the defaults when none are saved.
func (s *Settings) Load(ctx context.Context) (Preferences, error) {
	p := Preferences{Sound: true, Volume: true}
	if _, err := s.store.Get(ctx, settingsKey, &p); err != nil {
		return Preferences{Sound: true, Volume: true}, err
	}
	return p, nil
}

// Save replaces the stored preferences.
func (s *Settings) Save(ctx context.Context, p Preferences) error {
	return s.store.Put(ctx, settingsKey, p)
}

// ToggleSound flips the sound preference and returns the stored result.
func (s *Settings) ToggleSound(ctx context.Context) (Preferences, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return p, err
	}
	p.Sound = !p.Sound
	return p, s.Save(ctx, p)
}

// ToggleVolume flips the volume preference and returns the stored result.
func (s *Settings) ToggleVolume(ctx context.Context) (Preferences, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return p, err
	}
	p.Volume = !p.Volume
	return p, s.Save(ctx, p)
}
