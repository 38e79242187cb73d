// Package core defines the shared contracts of the AdminFlow orchestration
// engine: the closed set of owners that may hold control of a turn, the
// routing decisions they produce, the results tool adapters return, the
// per-session conversation state the graph threads through a turn, and the
// error taxonomy every terminal path maps onto.
//
// Leaf packages (agent, tool, graph, session, trace) depend on core; core
// depends on nothing but the standard library and uuid generation. Keeping
// the contracts here lets the graph stay ignorant of concrete agents and
// adapters while still enforcing the hierarchy invariants at compile time.
package core
