// Package load reads schema definitions from YAML and JSON documents.
//
// A document is a list of definitions, or a map from definition names to
// definitions. Each definition maps field names to types in declaration
// order; the reserved "__" key holds the metadata block:
//
//	- __:
//	    name: Product
//	  id: Int
//	  name:
//	    type: String
//	    max: 64
//	  tags: [String]
//	  category: Category
//
// A field value is a type name (a primitive kind or another definition of
// the same load set), a list holding the element type, or a descriptor map
// with a "type" key. Unknown descriptor keys are kept as annotations.
package load
