package theme

import (
	"testing"

	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/stretchr/testify/require"
)

func TestDefaultThemeRegistered(t *testing.T) {
	require.True(t, Exists(DefaultName))
	require.True(t, Exists("kinetta-light"))

	p, ok := Get(DefaultName)
	require.True(t, ok)
	require.Equal(t, DefaultName, p.Name)
}

func TestSetCurrent(t *testing.T) {
	t.Cleanup(func() { _ = SetCurrent(DefaultName) })

	require.NoError(t, SetCurrent("kinetta-light"))
	require.Equal(t, "kinetta-light", CurrentName())

	require.Error(t, SetCurrent("no-such-theme"))
	require.Equal(t, "kinetta-light", CurrentName())
}

func TestAvailableSortedAndNonEmpty(t *testing.T) {
	names := Available()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		require.LessOrEqual(t, names[i-1], names[i])
	}
}

func TestPaletteFallsBackToDefault(t *testing.T) {
	p := Palette{Name: "partial", Colors: map[Token]Color{}}
	c := p.Color(ColorDanger)
	require.NotEmpty(t, c.Light)
	require.NotEmpty(t, c.Dark)
}

func TestPaletteFromTint(t *testing.T) {
	src := &tint.Tint{
		ID:          "test_tint",
		DisplayName: "Test Tint",
		Fg:          &tint.Color{R: 0xF2, G: 0xF4, B: 0xF8, A: 0xFF},
		Red:         &tint.Color{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	}

	p := paletteFromTint(src)
	require.Equal(t, "test_tint", p.Name)
	require.Equal(t, "Test Tint", p.DisplayName)
	require.Equal(t, "#F2F4F8", p.Color(ColorTextPrimary).Dark)
	require.Equal(t, "#EF4444", p.Color(ColorDanger).Dark)

	// Slots the tint leaves nil resolve through the fallback palette.
	require.NotEmpty(t, p.Color(ColorAccent).Dark)

	require.Empty(t, paletteFromTint(nil).Name)
}

func TestDefaultTintsRegistered(t *testing.T) {
	tints := tint.DefaultTints()
	require.NotEmpty(t, tints)
	require.True(t, Exists(tints[0].ID))
}

func TestNormalizeHex(t *testing.T) {
	require.Equal(t, "#AABBCC", normalizeHex("aabbcc"))
	require.Equal(t, "#FFAA00", normalizeHex("#fa0"))
	require.Equal(t, "", normalizeHex("  "))
}

func TestFlagRejectsUnknownTheme(t *testing.T) {
	f := NewFlag(DefaultName)
	require.Error(t, f.Set("nope"))
	require.NoError(t, f.Set("kinetta-light"))
	require.Equal(t, "kinetta-light", f.Value())
}
