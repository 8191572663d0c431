package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/dll/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestPackageRef_Canonical(t *testing.T) {
	tests := []struct {
		name string
		ref  domain.PackageRef
		want string
	}{
		{name: "plain name", ref: domain.NewNameRef("react"), want: "react"},
		{name: "plain subpath", ref: domain.NewNameRef("lodash/fp"), want: "lodash/fp"},
		{name: "descriptor uses path", ref: domain.NewDescriptorRef("rxjs", "rxjs/Rx"), want: "rxjs/Rx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.Canonical())
		})
	}
}

func TestPackageRef_Validate(t *testing.T) {
	require.NoError(t, domain.NewNameRef("react").Validate())
	require.NoError(t, domain.NewDescriptorRef("rxjs", "rxjs/Rx").Validate())

	require.ErrorIs(t, domain.NewNameRef("").Validate(), domain.ErrEmptyPackageRef)

	err := domain.NewDescriptorRef("rxjs", "").Validate()
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "rxjs", zErr.Metadata()["package"])
	assert.Contains(t, err.Error(), domain.ErrEmptyDescriptorPath.Error())
}

func TestBundleDefinition_CanonicalPackages(t *testing.T) {
	b := domain.BundleDefinition{
		Name: "vendor",
		Packages: []domain.PackageRef{
			domain.NewNameRef("react-dom"),
			domain.NewNameRef("react"),
			domain.NewDescriptorRef("react", "react"),
		},
	}

	assert.Equal(t, []string{"react", "react-dom"}, b.CanonicalPackages())
	assert.Equal(t, []string{"react-dom", "react", "react"}, b.EntryPackages())
}

func TestCanonicalizeIDs_DoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a", "b"}
	out := domain.CanonicalizeIDs(in)

	assert.Equal(t, []string{"a", "b"}, out)
	assert.Equal(t, []string{"b", "a", "b"}, in)
}

func TestValidateBundleName(t *testing.T) {
	valid := []string{"vendor", "polyfills", "vendor-2", "app_core", "v1.2"}
	for _, name := range valid {
		require.NoError(t, domain.ValidateBundleName(name), name)
	}

	invalid := []string{"", ".", "..", "a/b", "with space", "../escape"}
	for _, name := range invalid {
		require.Error(t, domain.ValidateBundleName(name), name)
	}
}

func TestValidateBundles(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := domain.ValidateBundles([]domain.BundleDefinition{
			{Name: "vendor", Packages: []domain.PackageRef{domain.NewNameRef("react")}},
			{Name: "polyfills", Packages: []domain.PackageRef{domain.NewNameRef("core-js")}},
		})
		require.NoError(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		require.NoError(t, domain.ValidateBundles(nil))
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := domain.ValidateBundles([]domain.BundleDefinition{
			{Name: "vendor"},
			{Name: "vendor"},
		})
		require.ErrorIs(t, err, domain.ErrConfiguration)
		assert.ErrorContains(t, err, domain.ErrDuplicateBundle.Error())
	})

	t.Run("bad reference", func(t *testing.T) {
		err := domain.ValidateBundles([]domain.BundleDefinition{
			{Name: "vendor", Packages: []domain.PackageRef{domain.NewDescriptorRef("rxjs", "")}},
		})
		require.ErrorIs(t, err, domain.ErrConfiguration)
		assert.ErrorContains(t, err, domain.ErrEmptyDescriptorPath.Error())
	})

	t.Run("empty name", func(t *testing.T) {
		err := domain.ValidateBundles([]domain.BundleDefinition{{Name: ""}})
		require.ErrorIs(t, err, domain.ErrConfiguration)
		require.ErrorIs(t, err, domain.ErrEmptyBundleName)
	})
}

func TestStaleBundles_PreservesOrder(t *testing.T) {
	verdicts := []domain.Verdict{
		{Bundle: domain.BundleDefinition{Name: "c"}, Stale: true},
		{Bundle: domain.BundleDefinition{Name: "a"}, Stale: false},
		{Bundle: domain.BundleDefinition{Name: "b"}, Stale: true},
	}

	assert.Equal(t, []string{"c", "b"}, domain.BundleNames(domain.StaleBundles(verdicts)))
}

func TestCycleState_CanTransition(t *testing.T) {
	assert.True(t, domain.CycleIdle.CanTransition(domain.CycleChecking))
	assert.True(t, domain.CycleChecking.CanTransition(domain.CycleStaleFound))
	assert.True(t, domain.CycleRebuilding.CanTransition(domain.CycleRebuildFailed))
	assert.True(t, domain.CycleCommitted.CanTransition(domain.CycleIdle))

	assert.False(t, domain.CycleIdle.CanTransition(domain.CycleRebuilding))
	assert.False(t, domain.CycleAllValid.CanTransition(domain.CycleRebuilding))
	assert.False(t, domain.CycleRebuildFailed.CanTransition(domain.CycleCommitted))
}
