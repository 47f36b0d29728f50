package config

import "strings"

// Three-letter ISO 639-2/3 codes mapped to the two-letter codes WhisperX accepts.
var iso3ToISO2 = map[string]string{
	"eng": "en",
	"spa": "es",
	"fra": "fr",
	"fre": "fr",
	"deu": "de",
	"ger": "de",
	"ita": "it",
	"por": "pt",
	"jpn": "ja",
	"kor": "ko",
	"zho": "zh",
	"chi": "zh",
	"nld": "nl",
	"dut": "nl",
	"rus": "ru",
}

// autoLanguage values request language detection from the engine.
var autoLanguage = map[string]bool{
	"":     true,
	"auto": true,
	"none": true,
}

// NormalizeLanguage lowercases a language code and maps three-letter codes
// and region-tagged codes (en-US, en_GB) onto the two-letter form. An empty
// result means auto-detect.
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if autoLanguage[code] {
		return ""
	}
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if iso2, ok := iso3ToISO2[code]; ok {
		return iso2
	}
	return code
}
