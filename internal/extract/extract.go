package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/scry-study/internal/domain"
)

const (
	questionPrefix = "q:"
	answerPrefix   = "a:"

	// MaxQuestionRunes bounds the left side of a separator split.
	MaxQuestionRunes = 180
	// MaxAnswerRunes bounds the right side of a separator split.
	MaxAnswerRunes = 4000
)

// space also matches Unicode space separators such as U+00A0, which \s
// does not cover in Go's regexp syntax.
const space = `[\s\p{Zs}]`

// bulletPrefix matches list markers at the start of a line.
var bulletPrefix = regexp.MustCompile(`^[\-*•\x{2022}\x{25CF}]+` + space + `+`)

// separators are tried in order; the first pattern found anywhere in the line
// decides the split, even if a later pattern occurs earlier in the line.
var separators = []*regexp.Regexp{
	separator(`*`, `:`),
	separator(`+`, `-`),
	separator(`+`, `–`),
	separator(`+`, `—`),
	separator(`*`, `=`),
	separator(`*`, `->`),
	separator(`*`, `=>`),
}

// separator compiles sep surrounded by space repeated per quantifier.
func separator(quantifier, sep string) *regexp.Regexp {
	pad := space + quantifier
	return regexp.MustCompile(pad + regexp.QuoteMeta(sep) + pad)
}

// Pairs extracts question/answer pairs from text.
//
// Two passes run over the non-empty, trimmed, de-bulleted lines:
//   - "Q: ..." followed by "A: ..." yields a pair; an A: line without a
//     pending question is ignored
//   - every other line is split on the first matching separator
//     (":", " - ", " – ", " — ", "=", "->", "=>")
//
// Q:/A: pairs come first in the result, then separator pairs, with exact
// duplicates removed keeping the first occurrence.
func Pairs(text string) []domain.QAPair {
	lines := splitLines(text)

	out := make([]domain.QAPair, 0, len(lines))
	out = append(out, questionAnswerPairs(lines)...)
	out = append(out, separatorPairs(lines)...)

	return dedupe(out)
}

// splitLines normalises line endings, trims each line, strips bullet markers
// and drops lines left empty.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		ln = strings.TrimSpace(bulletPrefix.ReplaceAllString(ln, ""))
		if ln == "" {
			continue
		}
		lines = append(lines, ln)
	}
	return lines
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isMarkerLine(l string) bool {
	return hasPrefixFold(l, questionPrefix) || hasPrefixFold(l, answerPrefix)
}

func questionAnswerPairs(lines []string) []domain.QAPair {
	var out []domain.QAPair
	pending := ""

	for _, l := range lines {
		if hasPrefixFold(l, questionPrefix) {
			pending = strings.TrimSpace(l[len(questionPrefix):])
			continue
		}
		if hasPrefixFold(l, answerPrefix) && pending != "" {
			answer := strings.TrimSpace(l[len(answerPrefix):])
			if answer != "" {
				out = append(out, domain.QAPair{Question: pending, Answer: answer})
			}
			pending = ""
		}
	}
	return out
}

func separatorPairs(lines []string) []domain.QAPair {
	var out []domain.QAPair

	for _, l := range lines {
		if isMarkerLine(l) {
			continue
		}

		for _, sep := range separators {
			loc := sep.FindStringIndex(l)
			if loc == nil {
				continue
			}
			left := strings.TrimSpace(l[:loc[0]])
			right := strings.TrimSpace(l[loc[1]:])
			if left != "" && right != "" &&
				utf8.RuneCountInString(left) <= MaxQuestionRunes &&
				utf8.RuneCountInString(right) <= MaxAnswerRunes {
				out = append(out, domain.QAPair{Question: left, Answer: right})
			}
			break
		}
	}
	return out
}

func dedupe(pairs []domain.QAPair) []domain.QAPair {
	seen := make(map[domain.QAPair]struct{}, len(pairs))
	uniq := make([]domain.QAPair, 0, len(pairs))
	for _, p := range pairs {
		p.Question = strings.TrimSpace(p.Question)
		p.Answer = strings.TrimSpace(p.Answer)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
	}
	return uniq
}
