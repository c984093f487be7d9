// Package hclseed loads seed graphs from HCL files.
//
// A seed directory holds any number of .hcl files. Each file may declare
// nodes and mutually exclusive property pairs:
//
//	node "field" "field_name" {
//	  caption  = "Name"
//	  deps     = ["property_required"]
//	  self     = { label = "Name" }
//	  override = { width = 2 }
//	}
//
//	opposite "property_required" "property_not_required" {}
//
// The loader only parses and translates. Creating the nodes, resolving
// references between files and rebuilding aggregates is done by
// engine.Seed, so files can be split and ordered freely.
package hclseed
