package morph

// Category is the display part-of-speech attached to extracted tokens.
type Category string

const (
	Noun      Category = "Noun"
	Verb      Category = "Verb"
	Adjective Category = "Adjective"
	Adverb    Category = "Adverb"
	Other     Category = "Other"
)

// First-level part-of-speech tags assigned by the system dictionaries.
const (
	tagNoun      = "名詞"
	tagVerb      = "動詞"
	tagAdjective = "形容詞"
	tagAdverb    = "副詞"
	tagParticle  = "助詞"
	tagAuxiliary = "助動詞"
)

var categories = map[string]Category{
	tagNoun:      Noun,
	tagVerb:      Verb,
	tagAdjective: Adjective,
	tagAdverb:    Adverb,
}

// categoryOf maps a native first-level tag to its display category.
// Tags without a mapping collapse to Other.
func categoryOf(tag string) Category {
	if c, ok := categories[tag]; ok {
		return c
	}
	return Other
}

// functional reports whether tag marks a purely grammatical unit that
// never belongs in a vocabulary list: particles and auxiliary verbs.
func functional(tag string) bool {
	return tag == tagParticle || tag == tagAuxiliary
}
