package gemini

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	// wholeFenceRegex matches a Markdown fence spanning the entire text, with
	// an optional language tag on the opening line.
	wholeFenceRegex = regexp.MustCompile("(?s)^```[\\w+.-]*[ \\t]*\\n?(.*?)\\s*```$")

	// openFenceRegex matches an opening fence whose closing fence was cut off.
	openFenceRegex = regexp.MustCompile("^```[\\w+.-]*")
)

// StripCodeFence extracts the JSON payload from model output.
//
// Text that is already valid JSON is returned as-is, whatever it contains.
// Otherwise a fence wrapping the whole text is removed, and if the result is
// still not JSON the span from the first '{' to the last '}' is used when that
// span is itself valid JSON. Anything else is returned trimmed so the decoder
// can reject it.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if json.Valid([]byte(text)) {
		return text
	}

	if m := wholeFenceRegex.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	} else if loc := openFenceRegex.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}
	if json.Valid([]byte(text)) {
		return text
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start && json.Valid([]byte(text[start:end+1])) {
		return text[start : end+1]
	}

	return text
}
