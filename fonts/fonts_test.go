package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadDefaults(t *testing.T) {
	require.NoError(t, LoadDefaults())
	for name := range Size {
		assert.NotNil(t, name.Get())
	}
}

func TestLoadFont(t *testing.T) {
	assert.Error(t, LoadFont(HUD, []byte("not a font")))
	require.NoError(t, LoadFont(HUDSmall, goregular.TTF))
	assert.NotNil(t, HUDSmall.Get())

	assert.Panics(t, func() { FontName("missing").Get() })
}
