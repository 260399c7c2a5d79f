package speech

import "strings"

// Voice is a synthesis voice reported by the browser.
type Voice struct {
	Name    string `json:"name"`
	Lang    string `json:"lang"`
	Default bool   `json:"default,omitempty"`
}

var preferredVendors = []string{"Google", "Microsoft", "Alex"}

// ChooseVoice prefers an English voice from a known vendor, then any English
// voice, then the first voice. It reports false when no voices are known.
func ChooseVoice(voices []Voice) (Voice, bool) {
	for _, v := range voices {
		if !isEnglish(v) {
			continue
		}
		for _, vendor := range preferredVendors {
			if strings.Contains(v.Name, vendor) {
				return v, true
			}
		}
	}
	for _, v := range voices {
		if isEnglish(v) {
			return v, true
		}
	}
	if len(voices) > 0 {
		return voices[0], true
	}
	return Voice{}, false
}

func isEnglish(v Voice) bool {
	return strings.HasPrefix(v.Lang, "en")
}
