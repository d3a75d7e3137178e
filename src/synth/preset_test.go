package synth

import (
	"testing"
)

func TestPresetSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	pm := newPresetManager(dir)

	source := newParams()
	source.adsr.attack = 2.5
	source.osc.kind = waveNoise
	source.delay.mix = 0.8
	if err := pm.save("lead", source); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	target := newParams()
	if err := pm.applyToParams("lead", target); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if target.adsr.attack != 2.5 {
		t.Errorf("attack not restored: %v", target.adsr.attack)
	}
	if target.osc.kind != waveNoise {
		t.Errorf("osc kind not restored: %v", target.osc.kind)
	}
	if target.delay.mix != 0.8 {
		t.Errorf("delay mix not restored: %v", target.delay.mix)
	}
}

func TestPresetListTracksSaves(t *testing.T) {
	dir := t.TempDir()
	pm := newPresetManager(dir)
	if err := pm.save("one", newParams()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := pm.save("two", newParams()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// Saving under an existing name must not duplicate the entry.
	if err := pm.save("one", newParams()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	fresh := newPresetManager(dir)
	list, err := fresh.getList()
	if err != nil {
		t.Fatalf("getList failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(list))
	}
	names := map[string]bool{}
	for _, meta := range list {
		names[meta.name] = true
	}
	if !names["one"] || !names["two"] {
		t.Errorf("missing preset names: %v", names)
	}
}

func TestPresetLoadMissingFails(t *testing.T) {
	pm := newPresetManager(t.TempDir())
	if err := pm.applyToParams("nope", newParams()); err == nil {
		t.Error("expected an error for a missing preset")
	}
}
