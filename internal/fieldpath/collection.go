package fieldpath

import "fmt"

// CopyCollectionIndexes copies the indexes of source's collection segments
// onto target's collection segments, pairing them left to right.
//
// A differing number of collection segments is a normal situation in
// fan-in and fan-out mapping, so it is reported as a warning rather than
// an error. Extra target segments keep their own index.
func CopyCollectionIndexes(source, target Path) (Path, []string) {
	srcPos := source.CollectionPositions()
	dstPos := target.CollectionPositions()

	var warnings []string
	if len(srcPos) != len(dstPos) {
		warnings = append(warnings, fmt.Sprintf(
			"asymmetric collections: source %q has %d, target %q has %d",
			source, len(srcPos), target, len(dstPos)))
	}

	out := target
	for i := 0; i < len(srcPos) && i < len(dstPos); i++ {
		idx := source.segments[srcPos[i]].Index
		if idx.IsVacant() {
			continue
		}

		out, _ = out.SetCollectionIndex(dstPos[i], idx)
	}

	return out, warnings
}
