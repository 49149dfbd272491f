package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the code Matroska uses for tracks without a language.
const Undetermined = "und"

// bibliographic maps ISO 639-2/B codes to their terminology counterparts.
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"mao": "mri",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"tib": "bod",
	"wel": "cym",
}

var namer = display.English.Languages()

// Normalize lowercases code and folds bibliographic codes to terminology
// codes. Empty input yields Undetermined.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return Undetermined
	}
	if t, ok := bibliographic[code]; ok {
		return t
	}
	return code
}

func base(code string) (xlanguage.Base, bool) {
	code = Normalize(code)
	if code == Undetermined {
		return xlanguage.Base{}, false
	}
	b, err := xlanguage.ParseBase(code)
	if err != nil {
		return xlanguage.Base{}, false
	}
	return b, true
}

// DisplayName returns the English name for code, "Undetermined" for und or
// empty input, or the uppercased code when it is not a known language.
func DisplayName(code string) string {
	if Normalize(code) == Undetermined {
		return "Undetermined"
	}
	if b, ok := base(code); ok {
		if name := namer.Name(xlanguage.Make(b.String())); name != "" {
			return name
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Matches reports whether a track language satisfies filter. The filter may
// be a two or three letter code or an English language name.
func Matches(code, filter string) bool {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return true
	}
	if Normalize(code) == Normalize(filter) {
		return true
	}
	if a, ok := base(code); ok {
		if b, ok := base(filter); ok && a == b {
			return true
		}
	}
	return strings.EqualFold(DisplayName(code), filter)
}
