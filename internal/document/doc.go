// Package document defines the contract between the mapping engine and
// the per format document readers and writers.
//
// A Reader is loaded once with SetDocument and then resolves paths into
// fields; a Writer builds a target tree from fields and serializes it on
// Document. Implementations live in the xmldoc, jsondoc and yamldoc
// subpackages. Instances are stateful and belong to a single pass.
package document
