package language

import "testing"

func TestLookupAlignModel(t *testing.T) {
	model, ok := LookupAlignModel("en")
	if !ok {
		t.Fatal("expected english alignment model")
	}
	if model.Source != AlignSourceTorch || model.Name != "WAV2VEC2_ASR_BASE_960H" {
		t.Fatalf("unexpected english model: %+v", model)
	}

	model, ok = LookupAlignModel("jpn")
	if !ok || model.Language != "ja" || model.Source != AlignSourceHuggingFace {
		t.Fatalf("expected japanese model from huggingface, got %+v (ok=%v)", model, ok)
	}

	if _, ok := LookupAlignModel("sw"); ok {
		t.Fatal("did not expect swahili alignment model")
	}
	if SupportsAlignment("") {
		t.Fatal("empty code must not support alignment")
	}
}

func TestAlignModelsSorted(t *testing.T) {
	models := AlignModels()
	if len(models) != len(alignModelsTorch)+len(alignModelsHF) {
		t.Fatalf("unexpected model count %d", len(models))
	}
	for i := 1; i < len(models); i++ {
		if models[i-1].Language >= models[i].Language {
			t.Fatalf("models not sorted at %d: %q >= %q", i, models[i-1].Language, models[i].Language)
		}
	}
}
