package deck

import "sort"

// Sort orders cards for study: JLPT values ascending in byte order
// (N1 before N5), cards with no level after every graded one, and
// within the same level the words most frequent in the source document
// first. The sort is stable, so ties keep their input order and
// sorting an already sorted deck changes nothing.
func Sort(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		a, b := &cards[i], &cards[j]
		if a.JLPT != b.JLPT {
			if a.JLPT == "" {
				return false
			}
			if b.JLPT == "" {
				return true
			}
			return a.JLPT < b.JLPT
		}
		return a.FrequencyPDF > b.FrequencyPDF
	})
}
