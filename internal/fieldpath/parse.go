package fieldpath

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	Separator          = '/'
	attributeMarker    = '@'
	namespaceSeparator = ':'
	arrayOpen          = '['
	arrayClose         = ']'
	listOpen           = '<'
	listClose          = '>'
	escapeChar         = '\\'

	reservedChars = `/\:@[]<>`
)

// ErrMalformedPath is the sentinel wrapped by every MalformedPathError.
var ErrMalformedPath = errors.New("malformed path")

// MalformedPathError reports a path string that cannot be parsed.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func (e *MalformedPathError) Unwrap() error { return ErrMalformedPath }

func malformed(path, format string, args ...any) error {
	return &MalformedPathError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// MustParse is like Parse but panics on error. Intended for tests and
// constant paths.
func MustParse(text string) Path {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return p
}

// Parse parses a path string into a Path.
// A leading "/" makes the path absolute; "/" alone is the document root.
func Parse(text string) (Path, error) {
	if text == "" {
		return Path{}, malformed(text, "empty path")
	}

	var p Path

	rest := text
	if rest[0] == Separator {
		rest = rest[1:]
	} else {
		p.relative = true
	}

	if rest == "" {
		return p, nil
	}

	tokens, err := split(rest)
	if err != nil {
		return Path{}, malformed(text, "%v", err)
	}

	segments := make([]Segment, 0, len(tokens))

	for i, token := range tokens {
		if len(token) == 0 {
			return Path{}, malformed(text, "empty segment at position %d", i)
		}

		seg, err := parseSegment(token)
		if err != nil {
			return Path{}, malformed(text, "segment %d: %v", i, err)
		}

		if seg.Attribute && i != len(tokens)-1 {
			return Path{}, malformed(text, "attribute %q must be the last segment", seg.QualifiedName())
		}

		segments = append(segments, seg)
	}

	p.segments = segments

	return p, nil
}

// char is a decoded rune together with its escape state.
type char struct {
	r       rune
	escaped bool
}

// split decodes escapes and splits on unescaped separators.
func split(s string) ([][]char, error) {
	var (
		tokens  [][]char
		current = []char{}
		escaped bool
	)

	for _, r := range s {
		switch {
		case escaped:
			current = append(current, char{r: r, escaped: true})
			escaped = false
		case r == escapeChar:
			escaped = true
		case r == Separator:
			tokens = append(tokens, current)
			current = []char{}
		default:
			current = append(current, char{r: r})
		}
	}

	if escaped {
		return nil, errors.New("dangling escape character")
	}

	return append(tokens, current), nil
}

func parseSegment(token []char) (Segment, error) {
	var seg Segment

	if token[0].r == attributeMarker && !token[0].escaped {
		seg.Attribute = true
		token = token[1:]
	}

	name, kind, idx, err := splitIndex(token)
	if err != nil {
		return Segment{}, err
	}

	seg.Collection = kind
	seg.Index = idx

	ns, local, err := splitNamespace(name)
	if err != nil {
		return Segment{}, err
	}

	seg.Namespace = ns
	seg.Name = local

	if seg.Attribute && seg.IsCollection() {
		return Segment{}, errors.New("attribute cannot be a collection")
	}

	if seg.Name == "" && (!seg.IsCollection() || seg.Attribute || seg.Namespace != "") {
		return Segment{}, errors.New("missing name")
	}

	return seg, nil
}

// splitIndex strips a trailing "[n]" or "<n>" index marker.
func splitIndex(token []char) ([]char, CollectionKind, Index, error) {
	if len(token) == 0 {
		return token, CollectionNone, Index{}, nil
	}

	last := token[len(token)-1]

	var (
		open rune
		kind CollectionKind
	)

	switch {
	case last.escaped:
		return token, CollectionNone, Index{}, checkNoMarkers(token)
	case last.r == arrayClose:
		open, kind = arrayOpen, CollectionArray
	case last.r == listClose:
		open, kind = listOpen, CollectionList
	default:
		return token, CollectionNone, Index{}, checkNoMarkers(token)
	}

	start := -1

	for i := len(token) - 2; i >= 0; i-- {
		if token[i].r == open && !token[i].escaped {
			start = i
			break
		}
	}

	if start < 0 {
		return nil, 0, Index{}, fmt.Errorf("unterminated index marker %q", string(last.r))
	}

	name := token[:start]
	if err := checkNoMarkers(name); err != nil {
		return nil, 0, Index{}, err
	}

	digits := token[start+1 : len(token)-1]
	if len(digits) == 0 {
		return name, kind, Index{}, nil
	}

	buf := make([]rune, 0, len(digits))

	for _, c := range digits {
		if c.escaped || c.r < '0' || c.r > '9' {
			return nil, 0, Index{}, fmt.Errorf("non-numeric collection index %q", charsString(digits))
		}

		buf = append(buf, c.r)
	}

	n, err := strconv.Atoi(string(buf))
	if err != nil {
		return nil, 0, Index{}, fmt.Errorf("collection index %q: %w", string(buf), err)
	}

	return name, kind, At(n), nil
}

func splitNamespace(name []char) (string, string, error) {
	sep := -1

	for i, c := range name {
		if c.r != namespaceSeparator || c.escaped {
			continue
		}

		if sep >= 0 {
			return "", "", errors.New("more than one namespace separator")
		}

		sep = i
	}

	if sep < 0 {
		return "", charsString(name), nil
	}

	ns, local := charsString(name[:sep]), charsString(name[sep+1:])
	if ns == "" {
		return "", "", errors.New("empty namespace alias")
	}

	if local == "" {
		return "", "", errors.New("empty name after namespace alias")
	}

	return ns, local, nil
}

func checkNoMarkers(token []char) error {
	for _, c := range token {
		if c.escaped {
			continue
		}

		switch c.r {
		case arrayOpen, arrayClose, listOpen, listClose:
			return fmt.Errorf("unexpected %q in segment name", string(c.r))
		case attributeMarker:
			return errors.New("attribute marker must lead the segment")
		}
	}

	return nil
}

func charsString(cs []char) string {
	rs := make([]rune, len(cs))
	for i, c := range cs {
		rs[i] = c.r
	}

	return string(rs)
}
