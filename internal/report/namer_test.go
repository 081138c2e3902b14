package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bundlescope/internal/gitmeta"
)

func fixedNamer(info gitmeta.Info, at time.Time) *Namer {
	return &Namer{
		describe: func(_ string) gitmeta.Info { return info },
		now:      func() time.Time { return at },
	}
}

func TestName_Composition(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)
	namer := fixedNamer(gitmeta.Info{Branch: "main", Revision: "abc1234"}, at)

	assert.Equal(t, "main-abc1234-2026-03-14T15-09-26-535Z", namer.Name())
}

func TestName_NoUnsafeCharactersAfterBranch(t *testing.T) {
	t.Parallel()

	namer := fixedNamer(gitmeta.Info{Branch: "main", Revision: "abc1234"}, time.Now())

	name := namer.Name()
	timestampPart := strings.TrimPrefix(name, "main-abc1234-")

	assert.NotContains(t, timestampPart, ":")
	assert.NotContains(t, timestampPart, ".")
}

func TestName_DegradesToUnknown(t *testing.T) {
	t.Parallel()

	namer := fixedNamer(gitmeta.Info{Branch: gitmeta.Unknown, Revision: gitmeta.Unknown}, time.Now())

	assert.True(t, strings.HasPrefix(namer.Name(), "unknown-unknown-"))
}

func TestName_DiffersAcrossSeconds(t *testing.T) {
	t.Parallel()

	info := gitmeta.Info{Branch: "main", Revision: "abc1234"}
	base := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	first := fixedNamer(info, base).Name()
	second := fixedNamer(info, base.Add(time.Second)).Name()

	assert.NotEqual(t, first, second)
}
