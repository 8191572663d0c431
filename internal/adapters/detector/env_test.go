package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/dll/internal/adapters/detector"
	"go.trai.ch/dll/internal/core/domain"
)

func TestResolveTTY(t *testing.T) {
	yes := func() bool { return true }
	no := func() bool { return false }

	assert.True(t, detector.ResolveTTY(domain.TTYAlways, no))
	assert.False(t, detector.ResolveTTY(domain.TTYNever, yes))
	assert.True(t, detector.ResolveTTY(domain.TTYAuto, yes))
	assert.False(t, detector.ResolveTTY(domain.TTYAuto, no))
	assert.False(t, detector.ResolveTTY("", no))
}

func TestIsInteractive_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.False(t, detector.IsInteractive())
}
