package reading

// Katakana codepoints ァ..ヶ sit exactly 0x60 above their hiragana
// counterparts.
const kanaGap = 0x60

// HiraganaFromKatakana lowers every convertible katakana rune in s to
// hiragana. The prolonged sound mark, half-width forms, and everything
// outside the kana block pass through unchanged.
func HiraganaFromKatakana(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'ァ' && r <= 'ヶ' {
			r -= kanaGap
		}
		out = append(out, r)
	}
	return string(out)
}
