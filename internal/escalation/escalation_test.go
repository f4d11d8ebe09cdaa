package escalation

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neverinstall/internal/scan"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func fullSnapshot() *scan.Snapshot {
	return &scan.Snapshot{
		Hostname:        "box1",
		OSName:          "Debian 12",
		Username:        "al",
		DesktopCount:    scan.Count(3),
		DownloadsCount:  scan.Count(41),
		HistoryLines:    scan.Count(900),
		ProjectNames:    []string{"alpha"},
		GitRepos:        []string{"alpha"},
		DotfileNames:    []string{".zshrc"},
		SSHKeyNames:     []string{"id_ed25519"},
		BrowserProfiles: []string{"Firefox"},
		CloudConfigs:    []string{"AWS"},
		EnvFileCount:    2,
		FilesScanned:    120,
		ScanTime:        "21:04:05",
	}
}

func TestTierForBoundaries(t *testing.T) {
	cases := map[int]Tier{
		1: Baseline, 2: Ambient, 3: Ambient, 4: Familiar, 5: Familiar,
		6: Invasive, 8: Invasive, 9: Cosmic, 100: Cosmic,
	}
	for cycle, want := range cases {
		assert.Equal(t, want, TierFor(cycle), "cycle %d", cycle)
	}
}

func TestTierForNeverRegresses(t *testing.T) {
	prev := TierFor(1)
	for cycle := 2; cycle <= 500; cycle++ {
		cur := TierFor(cycle)
		require.GreaterOrEqual(t, int(cur), int(prev), "cycle %d", cycle)
		prev = cur
	}
}

func TestTierProbability(t *testing.T) {
	want := map[Tier]float64{
		Baseline: 0.15, Ambient: 0.20, Familiar: 0.25, Invasive: 0.30, Cosmic: 0.35,
	}
	for tier, p := range want {
		assert.Equal(t, p, tier.Probability(), tier.String())
	}
}

func TestInterpolateWithoutPlaceholders(t *testing.T) {
	got, ok := Interpolate("Reticulating splines...", &scan.Snapshot{}, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "Reticulating splines...", got)
}

func TestInterpolateHostname(t *testing.T) {
	got, ok := Interpolate("{hostname}", &scan.Snapshot{Hostname: "X"}, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "X", got)

	_, ok = Interpolate("{hostname}", &scan.Snapshot{}, newRNG(1))
	assert.False(t, ok)
}

func TestInterpolateSetPlaceholder(t *testing.T) {
	_, ok := Interpolate("{project}", &scan.Snapshot{}, newRNG(1))
	assert.False(t, ok)

	got, ok := Interpolate("{project}", &scan.Snapshot{ProjectNames: []string{"only"}}, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "only", got)
}

func TestInterpolateAbortsWholeTemplate(t *testing.T) {
	snap := &scan.Snapshot{Hostname: "box1"}
	_, ok := Interpolate("{hostname} holds {git_repo}", snap, newRNG(1))
	assert.False(t, ok)

	_, ok = Interpolate("{hostname} is {nonsense}", snap, newRNG(1))
	assert.False(t, ok)
}

func TestInterpolateCountsAlwaysPresent(t *testing.T) {
	got, ok := Interpolate("{env_count}/{files_scanned}", &scan.Snapshot{}, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "0/0", got)

	_, ok = Interpolate("{desktop_count}", &scan.Snapshot{}, newRNG(1))
	assert.False(t, ok)

	got, ok = Interpolate("{desktop_count}", &scan.Snapshot{DesktopCount: scan.Count(0)}, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "0", got)
}

func TestInterpolateDoesNotRescanValues(t *testing.T) {
	snap := &scan.Snapshot{Hostname: "{username}", Username: "al"}
	got, ok := Interpolate("host={hostname} user={username}", snap, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "host={username} user=al", got)
}

// An opening brace with no partner stops the scan and is kept literally.
func TestInterpolateUnmatchedBraceIsLenient(t *testing.T) {
	snap := &scan.Snapshot{Hostname: "box1"}
	got, ok := Interpolate("{hostname} said {oops", snap, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "box1 said {oops", got)

	// Nothing after the dangling brace is resolved, even a known key.
	got, ok = Interpolate("{ {hostname", snap, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "{ {hostname", got)
}

func TestInterpolateCycleMarker(t *testing.T) {
	got, ok := Interpolate("Cycle {cycle}.", &scan.Snapshot{}, newRNG(1))
	require.True(t, ok)
	assert.Equal(t, "Cycle {cycle}.", got)
}

func TestPickAndInterpolateFindsOnlyResolvable(t *testing.T) {
	snap := &scan.Snapshot{Username: "al"}
	pool := []string{"{git_repo} is dirty", "hello {username}", "{ssh_key} logged"}
	for seed := uint64(0); seed < 200; seed++ {
		e := New(snap, Opsec, newRNG(seed))
		got, ok := e.PickAndInterpolate(pool)
		require.True(t, ok, "seed %d", seed)
		require.Equal(t, "hello al", got)
	}
}

func TestPickAndInterpolateEmptyPool(t *testing.T) {
	e := New(fullSnapshot(), Opsec, newRNG(1))
	for i := 0; i < 10; i++ {
		_, ok := e.PickAndInterpolate(nil)
		assert.False(t, ok)
	}
}

func TestPickAndInterpolateVariesChoice(t *testing.T) {
	e := New(fullSnapshot(), Opsec, newRNG(7))
	pool := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		got, ok := e.PickAndInterpolate(pool)
		require.True(t, ok)
		seen[got] = true
	}
	assert.Len(t, seen, 3)
}

func TestBaselineProducesNothing(t *testing.T) {
	for _, v := range Voices() {
		e := New(fullSnapshot(), v, newRNG(3))
		for i := 0; i < 50; i++ {
			_, ok := e.EasterEgg(Baseline)
			assert.False(t, ok)
			_, ok = e.Warning(Baseline)
			assert.False(t, ok)
			_, ok = e.Completion(Baseline)
			assert.False(t, ok)
			_, ok = e.CycleHeader(Baseline, 1)
			assert.False(t, ok)
			_, ok = e.ExitMessage(Baseline)
			assert.False(t, ok)
		}
	}
}

func TestCosmicSkipsSSHTemplatesWithoutKeys(t *testing.T) {
	snap := &scan.Snapshot{Hostname: "box1", Username: "al"}
	for _, v := range Voices() {
		for seed := uint64(0); seed < 100; seed++ {
			e := New(snap, v, newRNG(seed))
			got, ok := e.EasterEgg(Cosmic)
			require.True(t, ok, "voice %s seed %d", v, seed)
			assert.NotContains(t, got, "{")
			assert.NotContains(t, got, "opens doors")
		}
	}
}

func TestSelectorsDegradeToNothing(t *testing.T) {
	e := New(&scan.Snapshot{}, Opsec, newRNG(1))
	// Every familiar warning needs a name or a count the empty snapshot lacks.
	_, ok := e.Warning(Familiar)
	assert.False(t, ok)

	got, ok := e.ExitMessage(Cosmic)
	require.True(t, ok)
	assert.NotContains(t, got, "{username}")
}

func TestCycleHeaderOnlyAtCosmic(t *testing.T) {
	e := New(fullSnapshot(), Occult, newRNG(5))
	for _, tier := range []Tier{Baseline, Ambient, Familiar, Invasive} {
		_, ok := e.CycleHeader(tier, 4)
		assert.False(t, ok, tier.String())
	}
	for i := 0; i < 20; i++ {
		got, ok := e.CycleHeader(Cosmic, 12)
		require.True(t, ok)
		assert.Contains(t, got, "12")
		assert.NotContains(t, got, "{cycle}")
	}
}

func TestExitMessageOnlyAtCosmic(t *testing.T) {
	e := New(fullSnapshot(), Opsec, newRNG(5))
	for _, tier := range []Tier{Baseline, Ambient, Familiar, Invasive} {
		_, ok := e.ExitMessage(tier)
		assert.False(t, ok, tier.String())
	}
	got, ok := e.ExitMessage(Cosmic)
	require.True(t, ok)
	assert.NotContains(t, got, "{")
}

func TestNilSnapshotIsEmpty(t *testing.T) {
	e := New(nil, Opsec, newRNG(1))
	_, ok := e.EasterEgg(Cosmic)
	assert.True(t, ok)
}

func placeholdersIn(template string) []string {
	var keys []string
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return keys
		}
		width := strings.IndexByte(rest[open:], '}')
		if width < 0 {
			return keys
		}
		keys = append(keys, rest[open+1:open+width])
		rest = rest[open+width+1:]
	}
}

func TestCatalogUsesKnownPlaceholders(t *testing.T) {
	for voice, set := range catalog {
		for s, templates := range set {
			for _, tpl := range templates {
				assert.Equal(t, strings.Count(tpl, "{"), strings.Count(tpl, "}"),
					"%s %s/%s: unbalanced %q", voice, s.tier, s.class, tpl)
				for _, key := range placeholdersIn(tpl) {
					_, ok := ParsePlaceholder(key)
					assert.True(t, ok, "%s %s/%s: unknown key %q in %q", voice, s.tier, s.class, key, tpl)
				}
			}
		}
	}
}

func TestCatalogShape(t *testing.T) {
	for _, v := range Voices() {
		for _, tier := range Tiers {
			for _, class := range []Class{EasterEgg, Warning, Completion} {
				if tier == Baseline {
					assert.Empty(t, Pool(v, tier, class))
				} else {
					assert.NotEmpty(t, Pool(v, tier, class), "%s %s/%s", v, tier, class)
				}
			}
			for _, class := range []Class{CycleHeader, ExitMessage} {
				if tier == Cosmic {
					assert.NotEmpty(t, Pool(v, tier, class))
				} else {
					assert.Empty(t, Pool(v, tier, class))
				}
			}
		}
		for _, tpl := range Pool(v, Cosmic, CycleHeader) {
			assert.Contains(t, tpl, "{cycle}")
		}
	}
}

func TestParseVoice(t *testing.T) {
	assert.Equal(t, []Voice{Occult, Opsec}, Voices())

	v, err := ParseVoice(" Occult ")
	require.NoError(t, err)
	assert.Equal(t, Occult, v)

	_, err = ParseVoice("sarcastic")
	assert.Error(t, err)
}

func TestZalgoStripsBackToInput(t *testing.T) {
	input := "Installation complete. But what was installed?"
	out := Zalgo(input, newRNG(11))
	stripped := strings.Map(func(r rune) rune {
		if slices.Contains(zalgoMarks, r) {
			return -1
		}
		return r
	}, out)
	assert.Equal(t, input, stripped)
	assert.Greater(t, len(out), len(input))
}

func TestZalgoLeavesWhitespaceBare(t *testing.T) {
	out := Zalgo("    ", newRNG(2))
	assert.Equal(t, "    ", out)
}
