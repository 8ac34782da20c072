// Package textsim сравнивает короткие описания инцидентов.
package textsim

import (
	"strings"
	"unicode"
)

// Similarity возвращает коэффициент Сёренсена-Дайса по мультимножествам биграмм.
//
// Текст приводится к нижнему регистру и разбивается на слова из букв и цифр,
// каждое слово обрамляется пробелами, биграммы берутся внутри обрамленного слова.
// Одинаковые строки (в том числе две пустые) дают 1.0, если у одной из сторон
// нет ни одной биграммы - 0.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	left := bigrams(a)
	right := bigrams(b)
	if len(left) == 0 || len(right) == 0 {
		return 0.0
	}

	counts := make(map[string]int, len(left))
	for _, g := range left {
		counts[g]++
	}

	shared := 0
	for _, g := range right {
		if counts[g] > 0 {
			counts[g]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(left)+len(right))
}

func bigrams(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var out []string
	for _, w := range words {
		padded := []rune(" " + w + " ")
		for i := 0; i < len(padded)-1; i++ {
			out = append(out, string(padded[i:i+2]))
		}
	}
	return out
}
