package ui

import (
	"io"
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/nodeweave/internal/catalog"
	"github.com/ingyamilmolinar/nodeweave/internal/config"
	game_log "github.com/ingyamilmolinar/nodeweave/internal/log"
)

var testLogger *game_log.Logger

func init() {
	testLogger = game_log.New(io.Discard, game_log.LevelError)
}

// rawInput is the polled input state for one frame.
type rawInput struct {
	x, y    int
	buttons []ebiten.MouseButton
	keys    []ebiten.Key
	chars   string
	wheelY  float64
}

func withInput(in rawInput, fn func()) {
	restore := SetInputForTest(
		func() (int, int) { return in.x, in.y },
		func(b ebiten.MouseButton) bool { return slices.Contains(in.buttons, b) },
		func(k ebiten.Key) bool { return slices.Contains(in.keys, k) },
		func(rs []rune) []rune { return append(rs, []rune(in.chars)...) },
		func() (float64, float64) { return 0, in.wheelY },
	)
	defer restore()
	fn()
}

func step(t *testing.T, g *Game, in rawInput) {
	t.Helper()
	withInput(in, func() {
		if err := g.Update(); err != nil {
			t.Fatalf("update: %v", err)
		}
	})
	if err := g.State().CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func newTestGame(t *testing.T) (*Game, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Builtin(testLogger)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	cfg := config.Default()
	cfg.Editor.Debug = true
	g, err := New(cfg, cat, testLogger)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	t.Cleanup(g.Close)
	return g, cat
}
