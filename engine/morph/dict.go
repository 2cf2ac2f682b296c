package morph

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
)

// Supported system dictionaries. IPA is the default; UniDic segments
// more aggressively and tags with a different feature layout.
const (
	DictIPA = "ipa"
	DictUni = "uni"
)

// Dictionary resolves a configured dictionary name to its compiled
// system dictionary. The dictionaries are embedded in the binary and
// expensive to materialize, so callers resolve once per process and
// share the result.
func Dictionary(name string) (*dict.Dict, error) {
	switch name {
	case "", DictIPA:
		return ipa.Dict(), nil
	case DictUni:
		return uni.Dict(), nil
	default:
		return nil, fmt.Errorf("morph: unknown dictionary %q (expected %q or %q)", name, DictIPA, DictUni)
	}
}
