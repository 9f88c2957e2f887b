package language

import (
	"slices"
	"strings"
)

// AlignSource identifies where a default alignment model is published.
type AlignSource string

const (
	AlignSourceTorch       AlignSource = "torchaudio"
	AlignSourceHuggingFace AlignSource = "huggingface"
)

// AlignModel names the default wav2vec2 alignment model for a language.
type AlignModel struct {
	Language string
	Name     string
	Source   AlignSource
}

var alignModelsTorch = map[string]string{
	"en": "WAV2VEC2_ASR_BASE_960H",
	"fr": "VOXPOPULI_ASR_BASE_10K_FR",
	"de": "VOXPOPULI_ASR_BASE_10K_DE",
	"es": "VOXPOPULI_ASR_BASE_10K_ES",
	"it": "VOXPOPULI_ASR_BASE_10K_IT",
}

var alignModelsHF = map[string]string{
	"ja": "jonatasgrosman/wav2vec2-large-xlsr-53-japanese",
	"zh": "jonatasgrosman/wav2vec2-large-xlsr-53-chinese-zh-cn",
	"nl": "jonatasgrosman/wav2vec2-large-xlsr-53-dutch",
	"uk": "Yehor/wav2vec2-xls-r-300m-uk-with-small-lm",
	"pt": "jonatasgrosman/wav2vec2-large-xlsr-53-portuguese",
	"ar": "jonatasgrosman/wav2vec2-large-xlsr-53-arabic",
	"cs": "comodoro/wav2vec2-xls-r-300m-cs-250",
	"ru": "jonatasgrosman/wav2vec2-large-xlsr-53-russian",
	"pl": "jonatasgrosman/wav2vec2-large-xlsr-53-polish",
	"hu": "jonatasgrosman/wav2vec2-large-xlsr-53-hungarian",
	"fi": "jonatasgrosman/wav2vec2-large-xlsr-53-finnish",
	"fa": "jonatasgrosman/wav2vec2-large-xlsr-53-persian",
	"el": "jonatasgrosman/wav2vec2-large-xlsr-53-greek",
	"tr": "mpoyraz/wav2vec2-xls-r-300m-cv7-turkish",
	"da": "saattrupdan/wav2vec2-xls-r-300m-ftspeech",
	"he": "imvladikon/wav2vec2-xls-r-300m-hebrew",
	"vi": "nguyenvulebinh/wav2vec2-base-vi",
	"ko": "kresnik/wav2vec2-large-xlsr-korean",
	"ur": "kingabzpro/wav2vec2-large-xls-r-300m-Urdu",
	"te": "anuragshas/wav2vec2-large-xlsr-53-telugu",
	"hi": "theainerd/Wav2Vec2-large-xlsr-hindi",
	"ca": "softcatala/wav2vec2-large-xlsr-catala",
	"ml": "gvs/wav2vec2-large-xlsr-malayalam",
	"no": "NbAiLab/nb-wav2vec2-1b-bokmaal",
	"nn": "NbAiLab/nb-wav2vec2-300m-nynorsk",
}

// LookupAlignModel reports the default alignment model for code, if any.
func LookupAlignModel(code string) (AlignModel, bool) {
	iso := ToISO2(code)
	if iso == "" {
		return AlignModel{}, false
	}
	if name, ok := alignModelsTorch[iso]; ok {
		return AlignModel{Language: iso, Name: name, Source: AlignSourceTorch}, true
	}
	if name, ok := alignModelsHF[iso]; ok {
		return AlignModel{Language: iso, Name: name, Source: AlignSourceHuggingFace}, true
	}
	return AlignModel{}, false
}

// SupportsAlignment reports whether the built-in table has an alignment model
// for code. Newer whisperx releases ship more languages than this table; the
// prediction gate prefers the verdict the transcription helper reports.
func SupportsAlignment(code string) bool {
	_, ok := LookupAlignModel(code)
	return ok
}

// AlignModels lists every default alignment model ordered by language code.
func AlignModels() []AlignModel {
	models := make([]AlignModel, 0, len(alignModelsTorch)+len(alignModelsHF))
	for code, name := range alignModelsTorch {
		models = append(models, AlignModel{Language: code, Name: name, Source: AlignSourceTorch})
	}
	for code, name := range alignModelsHF {
		models = append(models, AlignModel{Language: code, Name: name, Source: AlignSourceHuggingFace})
	}
	slices.SortFunc(models, func(a, b AlignModel) int {
		return strings.Compare(a.Language, b.Language)
	})
	return models
}
