package types

import "fmt"

// SupportedLanguages are the languages the detection request accepts
var SupportedLanguages = []string{"Tamil", "English", "Hindi", "Malayalam", "Telugu"}

// SupportedAudioFormat is the only accepted audio container
const SupportedAudioFormat = "mp3"

// DetectRequest represents a voice detection request
type DetectRequest struct {
	Language    string `json:"language" binding:"required" example:"English"`
	AudioFormat string `json:"audioFormat" binding:"required" example:"mp3"`
	AudioBase64 string `json:"audioBase64" binding:"required"`
}

// Validate checks the enumerated fields beyond required-field binding
func (r *DetectRequest) Validate() error {
	if !languageSupported(r.Language) {
		return fmt.Errorf("unsupported language %q; supported languages are %v", r.Language, SupportedLanguages)
	}
	if r.AudioFormat != SupportedAudioFormat {
		return fmt.Errorf("unsupported audio format %q; only %q is accepted", r.AudioFormat, SupportedAudioFormat)
	}
	return nil
}

func languageSupported(language string) bool {
	for _, l := range SupportedLanguages {
		if l == language {
			return true
		}
	}
	return false
}

// HistoryRequest represents query parameters for the detection history listing
type HistoryRequest struct {
	Limit  int `form:"limit,default=20" example:"20"`
	Offset int `form:"offset,default=0" example:"0"`
}
