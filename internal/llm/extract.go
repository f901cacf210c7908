package llm

import (
	"regexp"
	"strings"
)

var reFence = regexp.MustCompile("(?s)```[a-zA-Z]*[ \t]*\r?\n?(.*?)```")

// ExtractLiteral finds a JSON literal delimited by open and close in free-form model text. The
// first fenced code block wins when it holds such a literal; otherwise the text between the first
// open and the last close is returned. The result is not guaranteed to parse.
func ExtractLiteral(text string, open, close byte) (string, bool) {
	if m := reFence.FindStringSubmatch(text); m != nil {
		block := strings.TrimSpace(m[1])
		if len(block) >= 2 && block[0] == open && block[len(block)-1] == close {
			return block, true
		}
	}

	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
