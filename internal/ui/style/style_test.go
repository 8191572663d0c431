package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/dll/internal/ui/style"
)

func TestBundleStatus(t *testing.T) {
	icon, color := style.BundleStatus(true)
	assert.Equal(t, style.Cross, icon)
	assert.Equal(t, style.Red, color)

	icon, color = style.BundleStatus(false)
	assert.Equal(t, style.Check, icon)
	assert.Equal(t, style.Green, color)
}
