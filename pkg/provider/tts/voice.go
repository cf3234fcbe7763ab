package tts

import "strings"

// preferredVoice is the first choice when picking an interviewer voice.
const preferredVoice = "Google UK English Female"

// ChooseVoice picks the interviewer voice from the available catalogue.
//
// Preference order:
//  1. the exact voice named by preferredVoice,
//  2. any English voice whose name carries a female marker,
//  3. the backend's default voice,
//  4. the first voice in the list.
//
// Returns the zero Voice and false when the catalogue is empty.
func ChooseVoice(voices []Voice) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	for _, v := range voices {
		if v.Name == preferredVoice {
			return v, true
		}
	}
	for _, v := range voices {
		if isEnglish(v.Lang) && hasFemaleMarker(v.Name) {
			return v, true
		}
	}
	for _, v := range voices {
		if v.Default {
			return v, true
		}
	}
	return voices[0], true
}

func isEnglish(lang string) bool {
	lang = strings.ToLower(lang)
	return lang == "en" || strings.HasPrefix(lang, "en-")
}

func hasFemaleMarker(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "female") || strings.Contains(name, "woman")
}
