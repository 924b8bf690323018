// Package hclschema reads and writes schemas written in HCL:
//
//	namespace = ["shop"]
//
//	struct "Order" {
//	  attributes = { table = "orders" }
//
//	  field "id" { type = int64 }
//	  field "shipping" { type = object({ city = string, zip = string }) }
//	  field "id_or_name" { type = variant(int32, string) }
//	  field "lines" { type = list(Line) }
//
//	  enum "Status" {
//	    value "Open" {}
//	    value "Closed" { number = 5 }
//	  }
//
//	  oneof "payment" {
//	    alt "card" { type = Card }
//	    alt "cash" {}
//	  }
//
//	  struct { var = "meta" field "source" { type = string } }
//	}
//
//	namespace "billing" { struct "Invoice" { field "order" { type = Order } } }
//
//	service "Orders" { rpc "Get" { request = GetOrder response = Order } }
//
// Type expressions are canonical kind keywords, declared names (dotted for
// namespaces) or constructor calls: list, set, map, optional, variant,
// tuple, pair, array(T, N), ptr, unique, shared, unordered_map,
// unordered_set, object({...}) for anonymous inline structs and
// opaque("spelling") for types with no canonical kind.
package hclschema
