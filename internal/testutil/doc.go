// Package testutil provides fluent builders and scripted stand-ins shared
// by tests across the module: a conversation-state builder, scripted
// deciders and specialists for exercising the orchestration graph without
// real agents, and a recording mail dialer.
package testutil
