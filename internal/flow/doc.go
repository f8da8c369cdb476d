// Package flow implements the Flow Launcher JSON-RPC plugin protocol.
//
// The launcher starts the plugin with a single JSON argument naming a method
// and its parameters, and reads a {"result":[...]} document from stdout. Each
// result item may carry a JsonRPCAction that the launcher sends back as a new
// request when the user selects it.
package flow
