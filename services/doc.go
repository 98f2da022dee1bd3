// Package services wires the three university deployables (student store,
// group store, university gateway) into a single process for demos and
// end-to-end tests.
//
// The production layout runs each service as its own binary (see cmd/), each
// with its own database; the orchestrator here substitutes in-memory stores
// and localhost ports but keeps all traffic between the services on real
// HTTP, so the cross-service behavior exercised is the same as in a split
// deployment.
package services
