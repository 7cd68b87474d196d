// Package engine runs the category intersection pipeline for one list tag.
//
// The pipeline is a straight line with no feedback:
//
//	text → directive.Parse → queryspec.Build → compiler.Compile
//	     → Executor.Run → render.Formatter.Format
//
// Each stage is pure except the executor, which issues exactly one read
// query against the store. A Renderer holds no mutable state, so one
// instance serves concurrent renders.
//
// ERROR MODEL:
//
// Problems in the tag text never fail a render. They come back as markup:
// the localized message for the validation code, or "" when the tag sets
// suppresserrors=true. Only two things are returned as errors, both as
// *RenderError:
//   - COMPILE_FAILED: the compiler rejected a spec the builder accepted
//   - QUERY_FAILED / SCAN_FAILED: the store failed the query or its rows
//
// Every render gets a UUIDv7 render ID. It appears on every log entry and
// on every RenderError of that render.
package engine
