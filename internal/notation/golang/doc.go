// Package golang reads Go type declarations and writes Go source.
//
// The reader understands the shapes the writer produces, so Go output parses
// back to the same module:
//
//   - struct types, with the first embedded type as the base and struct tags
//     as attributes; a json tag name becomes the field name
//   - a named basic type with typed constants is an enum
//   - a sealed interface (one method isT()) plus the structs implementing it
//     is an enum with payloads
//   - an interface whose methods all look like
//     Name(ctx context.Context, req *Req) (*Resp, error) is a service
//
// Other named types are treated as aliases of their underlying type.
package golang
