package game

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSnapshotProjectsState(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	p := h.joinAt(t, "p", TeamRed, 100, 300)
	p.Effects.Apply(EffectShield, time.Second, testEpoch)
	p.Effects.Apply(EffectBurn, time.Millisecond, testEpoch.Add(-time.Hour))
	h.joinAt(t, "q", TeamBlue, 300, 300)
	h.game.UseWeapon("p", WeaponLaser, 400, 300, testEpoch)
	tower, _ := h.game.State().Tower("tower_1")
	tower.Progress = 125
	tower.CapturingTeam = TeamGreen

	snap := h.game.Snapshot(testEpoch.Add(100 * time.Millisecond))
	if len(snap.Players) != 2 || snap.Players[0].ID != "p" {
		t.Fatalf("expected players in join order, got %+v", snap.Players)
	}
	if effects := snap.Players[0].Effects; len(effects) != 1 || effects[0] != EffectShield {
		t.Fatalf("expected only live effects, got %v", effects)
	}
	view := snap.Towers[1]
	if view.CaptureProgress != 12.5 || view.CapturingTeam == nil || *view.CapturingTeam != TeamGreen {
		t.Fatalf("unexpected tower view %+v", view)
	}
	if snap.Towers[0].CapturingTeam != nil {
		t.Fatalf("uncontested tower should carry a nil capturing team")
	}
	if len(snap.Effects) != 1 || snap.Effects[0].Duration != 500 || snap.Effects[0].StartTime != testEpoch.UnixMilli() {
		t.Fatalf("unexpected effect view %+v", snap.Effects)
	}
	if snap.MaxRounds != 5 || snap.TeamCounts[TeamBlue] != 1 {
		t.Fatalf("unexpected lifecycle fields %+v", snap)
	}

	snap.TeamScores[TeamRed] = 999
	if h.game.State().TeamScores[TeamRed] != 0 {
		t.Fatalf("snapshot must not alias live scores")
	}

	later := h.game.Snapshot(testEpoch.Add(time.Second))
	if len(later.Effects) != 0 {
		t.Fatalf("expired laser should not be projected")
	}

	encoded, err := json.Marshal(snap.Towers[0])
	if err != nil {
		t.Fatalf("marshal tower: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal tower: %v", err)
	}
	if v, ok := decoded["capturingTeam"]; !ok || v != nil {
		t.Fatalf("expected explicit null capturingTeam, got %v", decoded)
	}
}

func TestStepPrunesVisualEffects(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	h.joinAt(t, "p", TeamRed, 100, 300)
	h.game.Start(testEpoch)
	h.game.UseWeapon("p", WeaponLaser, 400, 300, testEpoch)

	h.game.Step(testEpoch.Add(499 * time.Millisecond))
	if len(h.game.State().Effects) != 1 {
		t.Fatalf("laser should survive before 500ms")
	}
	h.game.Step(testEpoch.Add(500 * time.Millisecond))
	if len(h.game.State().Effects) != 0 {
		t.Fatalf("laser should be pruned at 500ms")
	}
}

func TestLobbyStepPrunesVisualEffects(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	h.joinAt(t, "p", TeamRed, 100, 300)
	for i := 0; i < 3; i++ {
		h.game.UseWeapon("p", WeaponLaser, 400, 300, testEpoch.Add(time.Duration(i)*time.Minute))
	}
	if len(h.game.State().Effects) != 3 {
		t.Fatalf("expected three laser visuals, got %d", len(h.game.State().Effects))
	}

	if h.game.Step(testEpoch.Add(2*time.Minute + 499*time.Millisecond)) {
		t.Fatalf("step must report idle before start")
	}
	if got := len(h.game.State().Effects); got != 1 {
		t.Fatalf("expected only the live laser to remain, got %d", got)
	}
	if h.game.Tick() != 0 {
		t.Fatalf("lobby steps must not advance the tick, got %d", h.game.Tick())
	}
}
