package pacycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func dev(index uint32, name string) Device {
	return Device{Index: index, Name: name}
}

func mon(index uint32, name string) Device {
	return Device{Index: index, Name: name + ".monitor"}
}

func TestResolveCurrentUsesPersistedIndex(t *testing.T) {
	catalog := NewCatalog([]Device{dev(1, "a"), dev(2, "b")})
	s := newSelector(testLogger())

	current, ok, healed := s.resolveCurrent(catalog, 2, true)

	require.True(t, ok)
	assert.False(t, healed)
	assert.Equal(t, uint32(2), current.Index)
}

func TestResolveCurrentPersistedMonitorAnchorsWalk(t *testing.T) {
	catalog := NewCatalog([]Device{dev(1, "a"), mon(2, "a"), dev(3, "b")})
	s := newSelector(testLogger())

	// a monitor device still defines the start point when persisted
	current, ok, healed := s.resolveCurrent(catalog, 2, true)

	require.True(t, ok)
	assert.False(t, healed)
	assert.Equal(t, uint32(2), current.Index)
}

func TestResolveCurrentStaleFallsBackToFirstEligible(t *testing.T) {
	catalog := NewCatalog([]Device{mon(1, "a"), dev(2, "b"), dev(3, "c")})
	s := newSelector(testLogger())

	current, ok, healed := s.resolveCurrent(catalog, 99, true)

	require.True(t, ok)
	assert.True(t, healed)
	assert.Equal(t, uint32(2), current.Index)
}

func TestResolveCurrentFreshFallsBackToFirstEligible(t *testing.T) {
	catalog := NewCatalog([]Device{dev(5, "a"), dev(6, "b")})
	s := newSelector(testLogger())

	current, ok, healed := s.resolveCurrent(catalog, 0, false)

	require.True(t, ok)
	assert.True(t, healed)
	assert.Equal(t, uint32(5), current.Index)
}

func TestResolveCurrentNoEligibleDevices(t *testing.T) {
	catalog := NewCatalog([]Device{mon(1, "a"), mon(2, "b")})
	s := newSelector(testLogger())

	_, ok, _ := s.resolveCurrent(catalog, 0, false)

	assert.False(t, ok)
}

func TestResolveCurrentNeverInventsDevices(t *testing.T) {
	catalogs := []*Catalog{
		NewCatalog([]Device{dev(1, "a")}),
		NewCatalog([]Device{dev(1, "a"), mon(2, "a"), dev(3, "b")}),
		NewCatalog([]Device{mon(7, "x"), dev(9, "y")}),
	}
	s := newSelector(testLogger())

	for _, catalog := range catalogs {
		for _, persisted := range []uint32{0, 1, 3, 99} {
			current, ok, _ := s.resolveCurrent(catalog, persisted, true)
			if !ok {
				continue
			}

			_, found := catalog.ByIndex(current.Index)
			assert.True(t, found, "resolved device must exist in the catalog")
		}
	}
}

func TestCycleSkipsMonitorDevices(t *testing.T) {
	catalog := NewCatalog([]Device{dev(1, "a"), mon(2, "a"), dev(3, "c")})
	s := newSelector(testLogger())

	selection := s.cycle(catalog, dev(1, "a"), Forward)

	require.Equal(t, Resolved, selection.Outcome)
	assert.Equal(t, uint32(3), selection.Device.Index)
}

func TestCycleWrapsAround(t *testing.T) {
	catalog := NewCatalog([]Device{dev(1, "a"), dev(2, "b"), dev(3, "c")})
	s := newSelector(testLogger())

	forward := s.cycle(catalog, dev(3, "c"), Forward)
	require.Equal(t, Resolved, forward.Outcome)
	assert.Equal(t, uint32(1), forward.Device.Index)

	backward := s.cycle(catalog, dev(1, "a"), Backward)
	require.Equal(t, Resolved, backward.Outcome)
	assert.Equal(t, uint32(3), backward.Device.Index)
}

func TestCycleBackwardIsReverseWalk(t *testing.T) {
	catalog := NewCatalog([]Device{dev(1, "a"), mon(2, "a"), dev(3, "b"), dev(4, "c")})
	s := newSelector(testLogger())

	selection := s.cycle(catalog, dev(3, "b"), Backward)

	require.Equal(t, Resolved, selection.Outcome)
	assert.Equal(t, uint32(1), selection.Device.Index)
}

func TestCycleSingletonIsNoOp(t *testing.T) {
	s := newSelector(testLogger())

	catalog := NewCatalog([]Device{dev(1, "a")})
	for _, direction := range []Direction{Forward, Backward} {
		selection := s.cycle(catalog, dev(1, "a"), direction)

		require.Equal(t, Singleton, selection.Outcome)
		assert.Equal(t, uint32(1), selection.Device.Index)
	}
}

func TestCycleSingletonEvenWhenCurrentIsMonitor(t *testing.T) {
	catalog := NewCatalog([]Device{mon(1, "a"), dev(2, "b")})
	s := newSelector(testLogger())

	selection := s.cycle(catalog, mon(1, "a"), Forward)

	require.Equal(t, Singleton, selection.Outcome)
	assert.Equal(t, uint32(2), selection.Device.Index)
}

func TestCycleNoEligibleDevices(t *testing.T) {
	catalog := NewCatalog([]Device{mon(1, "a"), mon(2, "b")})
	s := newSelector(testLogger())

	selection := s.cycle(catalog, mon(1, "a"), Forward)

	assert.Equal(t, NoDevices, selection.Outcome)
}

func TestCycleNeverReturnsMonitorDevices(t *testing.T) {
	catalog := NewCatalog([]Device{mon(1, "a"), dev(2, "b"), mon(3, "b"), dev(4, "c"), dev(5, "d")})
	s := newSelector(testLogger())

	for _, d := range catalog.Devices() {
		for _, direction := range []Direction{Forward, Backward} {
			selection := s.cycle(catalog, d, direction)
			if selection.Outcome != Resolved {
				continue
			}

			assert.False(t, isMonitor(selection.Device),
				"cycling from #%d must not land on a monitor device", d.Index)
		}
	}
}

func TestCycleForwardIsAPermutationWalk(t *testing.T) {
	catalog := NewCatalog([]Device{dev(1, "a"), mon(2, "a"), dev(3, "b"), dev(4, "c"), mon(5, "c"), dev(6, "d")})
	s := newSelector(testLogger())

	eligible := catalog.Eligible()
	require.Len(t, eligible, 4)

	for _, start := range eligible {
		current := start
		for i := 0; i < len(eligible); i++ {
			selection := s.cycle(catalog, current, Forward)
			require.Equal(t, Resolved, selection.Outcome)
			current = selection.Device
		}

		assert.Equal(t, start.Index, current.Index,
			"N forward steps from #%d must return to it", start.Index)
	}
}

func TestCyclePrevThenNextReturnsToStart(t *testing.T) {
	catalog := NewCatalog([]Device{dev(1, "a"), dev(2, "b"), mon(3, "b"), dev(4, "c")})
	s := newSelector(testLogger())

	for _, start := range catalog.Eligible() {
		back := s.cycle(catalog, start, Backward)
		require.Equal(t, Resolved, back.Outcome)

		forth := s.cycle(catalog, back.Device, Forward)
		require.Equal(t, Resolved, forth.Outcome)

		assert.Equal(t, start.Index, forth.Device.Index)
	}
}
