// Package fieldpath parses and manipulates the string paths that address
// values inside tree-structured documents.
//
// # Path Syntax
//
//   - Plain segments: "/order/customer/name"
//   - Attributes (leaf only): "/order/@id"
//   - Fixed arrays: "/order/item[2]/sku"
//   - Grown lists: "/order/item<1>/sku"
//   - Namespaces: "/ns:order/ns:item<0>"
//   - Vacant indexes: "/order/item<>/sku" (next slot on write, every match on read)
//   - Root level arrays (JSON, YAML): "/<0>/name"
//
// A backslash escapes the next character, so names may contain any of the
// reserved characters "/\:@[]<>".
//
// Paths are immutable values. Every operation that rewrites an index
// returns a new Path and never shares mutated state with its receiver, so
// parsed paths may be cached and shared between goroutines (see Cache).
package fieldpath
