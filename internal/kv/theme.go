// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"fmt"
	"io"
)

// Theme is the display theme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme is used when no preference has been stored.
const DefaultTheme = ThemeDark

// Theme returns the stored theme preference, or DefaultTheme when none is
// stored or the stored value is unrecognised.
func (s *Store) Theme(ctx context.Context, warn io.Writer) Theme {
	var t Theme
	if !s.LoadJSON(ctx, KeyTheme, &t, warn) {
		return DefaultTheme
	}
	switch t {
	case ThemeDark, ThemeLight:
		return t
	default:
		return DefaultTheme
	}
}

// SetTheme stores the theme preference.
func (s *Store) SetTheme(ctx context.Context, t Theme) error {
	switch t {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unsupported theme %q: use dark or light", t)
	}
	return s.SaveJSON(ctx, KeyTheme, t)
}
