// Package subst lowers canonical types to target text from a per-target
// table of templates.
//
// A table row maps a kind to a name template and a default-value template.
// Templates use positional placeholders {0}, {1}, ... for the lowered type
// arguments and {...} for all of them joined with ", ". A list row of
// "std::vector<{0}>" and an int32 row of "int32_t" lower list<int32> to
// "std::vector<int32_t>".
//
// Lowering is total: a kind without a row degrades to the target's opaque
// fallback text and leaves a warning in the attached diagnostics.
package subst
