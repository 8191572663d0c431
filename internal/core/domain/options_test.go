package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dll/internal/core/domain"
)

func baseOptions() domain.Options {
	return domain.Options{
		DllDir: "dll",
		Bundles: []domain.BundleDefinition{
			{Name: "vendor", Packages: []domain.PackageRef{domain.NewNameRef("react")}},
		},
	}
}

func TestOptions_Resolve_Defaults(t *testing.T) {
	cwd := t.TempDir()

	opts, err := baseOptions().Resolve(cwd)
	require.NoError(t, err)

	assert.Equal(t, cwd, opts.Context)
	assert.Equal(t, filepath.Join(cwd, "dll"), opts.DllDir)
	assert.Equal(t, domain.DefaultStateFileName, opts.StateFile)
	assert.Equal(t, domain.RebuildStale, opts.Rebuild)
	assert.Equal(t, domain.TTYAuto, opts.Build.TTY)
	assert.Equal(t, filepath.Join(cwd, "dll", domain.DefaultStateFileName), opts.StatePath())
	assert.Equal(t, filepath.Join(cwd, "dll", "vendor.dll.js"), opts.BundlePath("vendor"))
	assert.Equal(t, filepath.Join(cwd, "dll", "vendor-manifest.json"), opts.ManifestPath("vendor"))
}

func TestOptions_Resolve_ExplicitContext(t *testing.T) {
	ctxDir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "bundles")

	in := baseOptions()
	in.Context = ctxDir
	in.DllDir = abs

	opts, err := in.Resolve("/unused")
	require.NoError(t, err)
	assert.Equal(t, ctxDir, opts.Context)
	assert.Equal(t, abs, opts.DllDir)
}

func TestOptions_Resolve_DoesNotMutateReceiver(t *testing.T) {
	in := baseOptions()
	in.Build.Env = map[string]string{"A": "1"}

	out, err := in.Resolve(t.TempDir())
	require.NoError(t, err)

	out.Build.Env["A"] = "2"
	out.Bundles[0].Packages[0] = domain.NewNameRef("preact")

	assert.Empty(t, in.Context)
	assert.Equal(t, "dll", in.DllDir)
	assert.Equal(t, "1", in.Build.Env["A"])
	assert.Equal(t, "react", in.Bundles[0].Packages[0].Canonical())
}

func TestOptions_Resolve_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Options)
		want   error
	}{
		{
			name:   "relative context",
			mutate: func(o *domain.Options) { o.Context = "relative/dir" },
			want:   domain.ErrContextNotAbsolute,
		},
		{
			name:   "missing dll dir",
			mutate: func(o *domain.Options) { o.DllDir = "" },
			want:   domain.ErrMissingDllDir,
		},
		{
			name:   "invalid rebuild mode",
			mutate: func(o *domain.Options) { o.Rebuild = "sometimes" },
			want:   domain.ErrInvalidRebuildMode,
		},
		{
			name:   "invalid tty mode",
			mutate: func(o *domain.Options) { o.Build.TTY = "sometimes" },
			want:   domain.ErrInvalidTTYMode,
		},
		{
			name:   "no bundles",
			mutate: func(o *domain.Options) { o.Bundles = nil },
			want:   domain.ErrNoBundles,
		},
		{
			name: "duplicate bundles",
			mutate: func(o *domain.Options) {
				o.Bundles = append(o.Bundles, domain.BundleDefinition{Name: "vendor"})
			},
			want: domain.ErrDuplicateBundle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseOptions()
			tt.mutate(&in)

			_, err := in.Resolve(t.TempDir())
			require.ErrorIs(t, err, domain.ErrConfiguration)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}
