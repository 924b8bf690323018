// Package document implements the canonical document notations: json, yaml
// and toml renderings of one model that mirrors the IR one to one.
//
// A document looks like this (yaml):
//
//	version: "1"
//	source: hcl
//	namespaces: [shop]
//	items:
//	  - kind: struct
//	    name: Order
//	    members:
//	      - kind: field
//	        name: lines
//	        type: { form: generic, kind: list, args: [{ form: ref, name: Line }] }
//
// Documents are read strictly: unknown keys, unknown kinds and versions
// outside the supported range are parse errors.
package document
