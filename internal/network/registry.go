package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/hdgen/internal/log"
	"github.com/Klingon-tech/hdgen/internal/storage"
	"github.com/rs/zerolog"
)

var registryPrefix = []byte("net/")

// Registry persists custom networks. Only network metadata is stored.
type Registry struct {
	db     *storage.PrefixDB
	logger zerolog.Logger
}

// NewRegistry returns a registry backed by db under the "net/" namespace.
func NewRegistry(db storage.DB) *Registry {
	return &Registry{
		db:     storage.NewPrefixDB(db, registryPrefix),
		logger: log.Network,
	}
}

func registryKey(name string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(name)))
}

// Add stores a custom network, replacing any custom entry of the same name.
// Preset names cannot be shadowed.
func (r *Registry) Add(s Spec) error {
	if IsPreset(s.Name) {
		return fmt.Errorf("%w: %s", ErrPresetConflict, s.Name)
	}
	s.Custom = true
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal network %q: %w", s.Name, err)
	}
	if err := r.db.Put(registryKey(s.Name), data); err != nil {
		return fmt.Errorf("store network %q: %w", s.Name, err)
	}
	r.logger.Info().Str("network", s.Name).Str("kind", s.Kind.String()).Msg("Custom network saved")
	return nil
}

// Get returns the custom network called name.
func (r *Registry) Get(name string) (Spec, error) {
	data, err := r.db.Get(registryKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	if err != nil {
		return Spec{}, fmt.Errorf("load network %q: %w", name, err)
	}
	var s Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return Spec{}, fmt.Errorf("decode network %q: %w", name, err)
	}
	return s, nil
}

// Remove deletes a custom network.
func (r *Registry) Remove(name string) error {
	if IsPreset(name) {
		return fmt.Errorf("%w: %s", ErrPresetConflict, name)
	}
	key := registryKey(name)
	ok, err := r.db.Has(key)
	if err != nil {
		return fmt.Errorf("check network %q: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	if err := r.db.Delete(key); err != nil {
		return fmt.Errorf("delete network %q: %w", name, err)
	}
	r.logger.Info().Str("network", name).Msg("Custom network removed")
	return nil
}

// List returns all custom networks ordered by lowercase name.
func (r *Registry) List() ([]Spec, error) {
	var out []Spec
	err := r.db.ForEach(nil, func(key, value []byte) error {
		var s Spec
		if err := json.Unmarshal(value, &s); err != nil {
			return fmt.Errorf("decode network %q: %w", key, err)
		}
		out = append(out, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes every custom network.
func (r *Registry) Clear() error {
	if err := r.db.DeleteAll(); err != nil {
		return fmt.Errorf("clear networks: %w", err)
	}
	r.logger.Info().Msg("Custom networks cleared")
	return nil
}

// Lookup resolves name against the presets first, then the custom registry.
// A nil registry resolves presets only.
func (r *Registry) Lookup(name string) (Spec, error) {
	if p, ok := Preset(name); ok {
		return p, nil
	}
	if r == nil {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return r.Get(name)
}

// All returns the presets followed by the custom networks.
func (r *Registry) All() ([]Spec, error) {
	all := Presets()
	if r == nil {
		return all, nil
	}
	custom, err := r.List()
	if err != nil {
		return nil, err
	}
	return append(all, custom...), nil
}
