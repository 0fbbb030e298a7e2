// Package mock provides deterministic test doubles for the ai interfaces.
//
// The doubles support behavior injection through function fields and expose
// call counters, so tests can assert how often external collaborators were
// invoked (for example, to observe cache hits).
package mock
