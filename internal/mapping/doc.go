// Package mapping provides the YAML schema of mapping definitions, their
// loading and their validation against a conversion service.
//
// A definition names the source and target documents of a pass and lists
// the mapping directives in execution order.
//
// # Schema Overview
//
//	version: "1"
//	sources:
//	  - id: src
//	    format: xml
//	    namespaces: {c: "http://example.com/contact"}
//	targets:
//	  - id: out
//	    format: json
//	    template: '{"JsonOA": {}}'
//	# Simplified 1:1 directives, executed first in the order written
//	121:
//	  /XmlFPE/intField: /JsonFPE/intField
//	mappings:
//	  - source: /XmlOA/contact<>/firstName
//	    target: [/JsonOA/contact<>/name, /JsonOA/contact<>/alias]
//	    source_type: STRING
//	    target_type: STRING
//	  - source: /XmlOA/created
//	    target: /JsonOA/created
//	    target_type: DATE
//	    format: "02.01.2006"
//	    default: "01.01.1970"
//
// # Defaults
//
// source_doc and target_doc default to the first declared source and
// target. A mapping with several targets expands into one directive per
// target, in order.
//
// # Validation
//
// Validate checks document references, path syntax and that every
// declared (source_type, target_type) pair has a conversion rule, so a
// definition fails before any document is read.
package mapping
