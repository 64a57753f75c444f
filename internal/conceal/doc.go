// Package conceal is the syntax-driven concealment engine.
//
// An Engine owns the resolved rule sets of one document and keeps the
// document's overlays in step with its syntax tree:
//
//   - persistent overlays (headings, quotes, list markers, todo states,
//     code-region backgrounds) are rebuilt whenever the text changes;
//   - volatile overlays (inline markup delimiters) are rebuilt whenever the
//     cursor moves and are then removed from the cursor's row so the raw
//     markup can be edited.
//
// Every pass first clears the namespace it repopulates. A pass that finds no
// parsed tree changes nothing. Malformed rule queries, unreadable nodes and
// rejected placements are logged and skipped; the rest of the pass
// continues.
//
// The Engine is driven by lifecycle signals. Attach subscribes it to a
// signal.Dispatcher; hosts may also call its handlers directly.
package conceal
