package dom

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// ComponentSeparator separates XBL scope prefixes from the static id,
	// e.g. "my-comp$my-input".
	ComponentSeparator = '$'
	// RepeatSeparator starts the repeat suffix of an effective id,
	// e.g. "my-input·1-2".
	RepeatSeparator = '·'
	// IterationSeparator separates the repeat indexes inside a suffix.
	IterationSeparator = '-'

	// ContainingDocumentID is the pseudo id of the root observer.
	ContainingDocumentID = "$containing-document$"
)

// EffectiveIDPrefix returns the scope prefix of an effective id including
// the trailing separator, or "" when the id is top-level.
//
//	foo$bar$my-input·1-2 => foo$bar$
func EffectiveIDPrefix(effectiveID string) string {
	if effectiveID == ContainingDocumentID {
		return ""
	}
	i := strings.LastIndexByte(EffectiveIDNoSuffix(effectiveID), ComponentSeparator)
	if i == -1 {
		return ""
	}
	return effectiveID[:i+1]
}

// EffectiveIDSuffix returns the repeat suffix without its leading separator.
func EffectiveIDSuffix(effectiveID string) string {
	i := strings.IndexRune(effectiveID, RepeatSeparator)
	if i == -1 {
		return ""
	}
	return effectiveID[i+len(string(RepeatSeparator)):]
}

// EffectiveIDNoSuffix strips the repeat suffix.
//
//	foo$bar$my-input·1-2 => foo$bar$my-input
func EffectiveIDNoSuffix(effectiveID string) string {
	i := strings.IndexRune(effectiveID, RepeatSeparator)
	if i == -1 {
		return effectiveID
	}
	return effectiveID[:i]
}

// RepeatIndexes parses the repeat suffix of an effective id into its
// indexes, outermost repeat first. A malformed suffix is an error.
func RepeatIndexes(effectiveID string) ([]int, error) {
	suffix := EffectiveIDSuffix(effectiveID)
	if suffix == "" {
		return []int{}, nil
	}
	parts := strings.Split(suffix, string(IterationSeparator))
	indexes := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid repeat suffix in effective id %q", effectiveID)
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}

// WithSuffix appends a repeat suffix to a prefixed id. An empty suffix
// leaves the id as is.
//
//	foo$my-id and 1-2 => foo$my-id·1-2
func WithSuffix(prefixedID, suffix string) string {
	if suffix == "" {
		return prefixedID
	}
	return prefixedID + string(RepeatSeparator) + suffix
}

// OuterSuffix drops the innermost repeat index of a suffix, giving the
// suffix of the enclosing iteration.
//
//	1-2 => 1
//	1 => ""
func OuterSuffix(suffix string) string {
	i := strings.LastIndexByte(suffix, IterationSeparator)
	if i == -1 {
		return ""
	}
	return suffix[:i]
}

// IterationStaticID is the static id shared by the iterations of a repeat.
// Handlers written directly in the repeat template observe it.
func IterationStaticID(repeatStaticID string) string {
	return repeatStaticID + "~iteration"
}

func appendIteration(suffix string, index int) string {
	if suffix == "" {
		return strconv.Itoa(index)
	}
	return suffix + string(IterationSeparator) + strconv.Itoa(index)
}
