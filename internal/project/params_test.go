package project

import "testing"

func TestParamsCloneIsIndependent(t *testing.T) {
	orig := Params{"seed": -1, "resolution": "960x544"}
	cp := orig.Clone()
	cp["seed"] = 7

	if orig["seed"] != -1 {
		t.Errorf("clone write leaked, orig seed = %v", orig["seed"])
	}
	if cp["resolution"] != "960x544" {
		t.Errorf("clone dropped key, resolution = %v", cp["resolution"])
	}
}

func TestParamsMergeLayering(t *testing.T) {
	base := Params{"seed": -1, "resolution": "960x544"}
	merged := base.Merge(Params{"seed": 42, "prompt": "neon alley"})

	if merged["seed"] != 42 {
		t.Errorf("override not applied, seed = %v", merged["seed"])
	}
	if merged["resolution"] != "960x544" {
		t.Errorf("base key lost, resolution = %v", merged["resolution"])
	}
	if merged["prompt"] != "neon alley" {
		t.Errorf("new key lost, prompt = %v", merged["prompt"])
	}
	if base["seed"] != -1 || len(base) != 2 {
		t.Error("merge mutated receiver")
	}
}

func TestDefaultParamsShape(t *testing.T) {
	d := DefaultParams()
	if d["resolution"] != "960x544" {
		t.Errorf("resolution = %v", d["resolution"])
	}
	if d["seed"] != -1 {
		t.Errorf("seed = %v", d["seed"])
	}
	if d["model_type"] != "ltx2_distilled" {
		t.Errorf("model_type = %v", d["model_type"])
	}
	if _, ok := d["image_start"]; !ok {
		t.Error("nullable media keys missing from defaults")
	}
}

func TestEffectiveParamsThreeLayers(t *testing.T) {
	p := &Project{
		DefaultParams: Params{"seed": 100, "num_inference_steps": 12},
	}
	sh := &Shot{Params: Params{"seed": 7}}

	eff := p.EffectiveParams(sh)
	if eff["seed"] != 7 {
		t.Errorf("shot layer should win, seed = %v", eff["seed"])
	}
	if eff["num_inference_steps"] != 12 {
		t.Errorf("project layer should win over defaults, steps = %v", eff["num_inference_steps"])
	}
	if eff["resolution"] != "960x544" {
		t.Errorf("defaults should fill the rest, resolution = %v", eff["resolution"])
	}
}

func TestEffectiveParamsNilShot(t *testing.T) {
	p := &Project{DefaultParams: Params{"seed": 3}}
	eff := p.EffectiveParams(nil)
	if eff["seed"] != 3 {
		t.Errorf("seed = %v", eff["seed"])
	}
}
