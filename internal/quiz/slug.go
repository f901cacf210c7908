package quiz

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"golang.org/x/text/unicode/norm"
)

const (
	slugMaxLen    = 60
	slugMinLen    = 3
	slugSuffixLen = 6
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reSlug     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify turns free text into [a-z0-9-], stripping diacritics. Falls back to "quiz".
func Slugify(s string, maxLen int) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := reNonAlnum.ReplaceAllString(b.String(), "-")
	out = strings.Trim(out, "-")
	if utf8.RuneCountInString(out) > maxLen {
		out = strings.Trim(string([]rune(out)[:maxLen]), "-")
	}
	if out == "" {
		out = "quiz"
	}
	return out
}

// GenerateSlug builds "<name-slug>-<random suffix>".
func GenerateSlug(name string) string {
	base := Slugify(name, slugMaxLen-slugSuffixLen-1)
	return base + "-" + randomSuffix(slugSuffixLen)
}

func ValidateSlug(slug string) error {
	n := utf8.RuneCountInString(slug)
	if n < slugMinLen || n > slugMaxLen {
		return apperr.Validation("slug", "must be between 3 and 60 characters")
	}
	if !reSlug.MatchString(slug) {
		return apperr.Validation("slug", "may only contain lowercase letters, digits and single dashes")
	}
	return nil
}

func randomSuffix(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	max := big.NewInt(int64(len(alphabet)))

	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String()
}
