package root

import (
	"testing"

	"github.com/kinetta/takeoffctl/internal/cmd/common"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestColorProfileOverride(t *testing.T) {
	p, ok := colorProfileOverride(common.ColorModeAlways, false)
	require.True(t, ok)
	require.Equal(t, termenv.TrueColor, p)

	p, ok = colorProfileOverride(common.ColorModeNever, false)
	require.True(t, ok)
	require.Equal(t, termenv.Ascii, p)

	// Auto leaves the terminal detection alone unless NO_COLOR is set.
	_, ok = colorProfileOverride(common.ColorModeAuto, false)
	require.False(t, ok)

	p, ok = colorProfileOverride(common.ColorModeAuto, true)
	require.True(t, ok)
	require.Equal(t, termenv.Ascii, p)
}

func TestRootRegistersColorFlag(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup(common.ColorFlagName)
	require.NotNil(t, f)
	require.Equal(t, common.DefaultColorMode, f.DefValue)
}
