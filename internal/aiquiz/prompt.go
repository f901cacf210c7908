package aiquiz

import (
	"fmt"
	"strings"
)

const systemPrompt = `
You write multiple-choice questions for a quiz application, based only on the material you are given.

General rules:
1. Every question must be answerable from the material.
2. Every question has exactly one correct option.
3. Every question has exactly 4 options of similar length and structure. Wrong options must be plausible.
4. Do not reveal the answer in the question text.
5. Do not prefix options with letters or numbers.
6. The "answer" field must repeat the correct option text character by character.

Output format, and nothing else:

[
  {
    "question": "<question text>",
    "selectOptions": ["<option>", "<option>", "<option>", "<option>"],
    "answer": "<one of selectOptions>"
  }
]

Always answer with pure, valid JSON. Never write text outside the JSON array.
`

// Source names the material a batch is generated from. Only one field is set.
type Source struct {
	FileName string
	URL      string
}

func BuildUserPrompt(n int, src Source) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write exactly %d multiple-choice questions. ", n)
	switch {
	case src.URL != "":
		fmt.Fprintf(&b, "Use the content published at this link as the material: %s. ", src.URL)
	case src.FileName != "":
		fmt.Fprintf(&b, "Use the attached file %q as the material. ", src.FileName)
	}
	b.WriteString("Return a JSON array with exactly that many objects, following the format in the instructions.")
	return b.String()
}
