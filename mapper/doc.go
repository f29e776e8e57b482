// Package mapper is the top-level entry point for mapper2: given a
// hierarchical fabric architecture (arch.TopLevel) and a dataflow task
// graph (taskgraph.Taskgraph), it assigns every task to a physical slot
// (Place) and routes every channel that needs it over the shared resource
// graph (Route), exactly the two operations spec.md §6 "Programmatic API"
// names.
//
// Map is the single owner of a run: the frozen architecture and task
// graph, whatever placement/routing result has been computed so far, and
// the Metrics spec.md §6 attaches to that result. Following builder/api.go's
// shape in the teacher (one exported orchestrator that resolves options
// then delegates to the package that owns each concern), Place delegates
// to maptable/distancelut/placement and Route delegates to routing; both
// record their result on the *Map they are called on and return that same
// *Map.
package mapper
