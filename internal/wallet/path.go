package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
)

// HardenedOffset is added to an index to mark hardened derivation.
const HardenedOffset uint32 = 0x80000000

// IndexPlaceholder is substituted with the wallet index in path templates.
const IndexPlaceholder = "{index}"

// Segment is one step of a derivation path.
type Segment struct {
	Index    uint32
	Hardened bool
}

// Child returns the BIP-32 child number, with the high bit set when hardened.
func (s Segment) Child() uint32 {
	if s.Hardened {
		return s.Index + HardenedOffset
	}
	return s.Index
}

// String renders the segment with an apostrophe marker when hardened.
func (s Segment) String() string {
	if s.Hardened {
		return strconv.FormatUint(uint64(s.Index), 10) + "'"
	}
	return strconv.FormatUint(uint64(s.Index), 10)
}

// Path is a parsed derivation path such as m/44'/60'/0'/0/7.
type Path []Segment

// String renders the path in m/... notation.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}

// ParsePath parses m/a/b'/c notation. Hardened segments may be marked with
// ', h or H. Indexes must be below 2^31.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "m" {
		return Path{}, nil
	}
	if !strings.HasPrefix(s, "m/") {
		return nil, fmt.Errorf("%w: %q must start with m/", ErrInvalidPath, s)
	}
	parts := strings.Split(s[2:], "/")
	marked := make([]bool, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if n := len(part); n > 0 && (part[n-1] == 'h' || part[n-1] == 'H') {
			part = part[:n-1] + "'"
		}
		marked[i] = strings.HasSuffix(part, "'")
		parts[i] = part
	}
	dp, err := accounts.ParseDerivationPath("m/" + strings.Join(parts, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, s, err)
	}
	path := make(Path, len(dp))
	for i, child := range dp {
		hardened := child >= HardenedOffset
		// accounts folds unmarked indexes >= 2^31 into the hardened range.
		if hardened != marked[i] {
			return nil, fmt.Errorf("%w: segment %d of %q: index %d out of range", ErrInvalidPath, i+1, s, child)
		}
		path[i] = Segment{Index: child &^ HardenedOffset, Hardened: hardened}
	}
	return path, nil
}

// ValidateTemplate checks that a template holds exactly one index placeholder
// and parses once the placeholder is filled.
func ValidateTemplate(template string) error {
	return ValidateTemplateRange(template, 0)
}

// ValidateTemplateRange is ValidateTemplate for every index up to last. The
// filled-in number grows with the index, so checking 0 and last covers the
// range.
func ValidateTemplateRange(template string, last uint32) error {
	if n := strings.Count(template, IndexPlaceholder); n != 1 {
		return fmt.Errorf("%w: template %q must contain %s exactly once", ErrInvalidPath, template, IndexPlaceholder)
	}
	if _, err := ParsePath(ExpandTemplate(template, 0)); err != nil {
		return err
	}
	_, err := ParsePath(ExpandTemplate(template, last))
	return err
}

// ExpandTemplate substitutes index into the template's placeholder.
func ExpandTemplate(template string, index uint32) string {
	return strings.Replace(template, IndexPlaceholder, strconv.FormatUint(uint64(index), 10), 1)
}
