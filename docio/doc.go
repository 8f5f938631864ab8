// Package docio reads and writes fldmerge documents and merge data.
//
// Documents are stored as YAML or JSON trees of nodes. Every node names its
// kind with the element names of the tree package ("body", "p", "r", "t",
// "instr", "fldChar", "tab", "br", "txbx", "txbxContent", "tbl", "tr", "tc"),
// and a run may carry a language tag:
//
//	body:
//	  kind: body
//	  children:
//	    - kind: p
//	      children:
//	        - {kind: r, children: [{kind: t, text: "Dear "}]}
//	        - {kind: r, children: [{char: begin}]}
//	        - {kind: r, children: [{kind: instr, text: " MERGEFIELD Name "}]}
//	        - {kind: r, children: [{char: separate}]}
//	        - {kind: r, lang: en-US, children: [{text: «Name»}]}
//	        - {kind: r, children: [{char: end}]}
//
// A node without a kind is a marker when it has a char and display text
// otherwise. Documents with headers or footers list their parts instead:
//
//	parts:
//	  - {name: document, kind: main, body: {...}}
//	  - {name: header1, kind: header, body: {...}}
//
// Fields are always written in marker form, so any document written by this
// package can be read and merged again.
//
// Merge data is a mapping of field names to values, or a sequence of such
// mappings for one merge per record. Nested mappings and sequences are
// flattened into dotted names ("address.city", "phones.0").
package docio
