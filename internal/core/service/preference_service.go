package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/ports"
)

// PreferenceService keeps the dark-mode flag under KeyTheme as a JSON bool.
type PreferenceService struct {
	kv     ports.KVStore
	logger zerolog.Logger
}

var _ ports.PreferenceService = (*PreferenceService)(nil)

func NewPreferenceService(kv ports.KVStore, logger zerolog.Logger) *PreferenceService {
	return &PreferenceService{kv: kv, logger: logger}
}

// DarkMode reports the stored flag; absent or unreadable values mean light.
func (s *PreferenceService) DarkMode(ctx context.Context) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, KeyTheme)
	if err != nil {
		return false, fmt.Errorf("read theme: %w", err)
	}
	if !ok {
		return false, nil
	}
	var dark bool
	if err := json.Unmarshal([]byte(raw), &dark); err != nil {
		s.logger.Warn().Str("value", raw).Msg("ignoring unreadable theme preference")
		return false, nil
	}
	return dark, nil
}

// ToggleDarkMode flips the flag and returns the new value.
func (s *PreferenceService) ToggleDarkMode(ctx context.Context) (bool, error) {
	dark, err := s.DarkMode(ctx)
	if err != nil {
		return false, err
	}
	dark = !dark
	if err := s.kv.Set(ctx, KeyTheme, strconv.FormatBool(dark)); err != nil {
		return false, fmt.Errorf("save theme: %w", err)
	}
	return dark, nil
}
