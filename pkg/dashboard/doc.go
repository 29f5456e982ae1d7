// Package dashboard holds the data orchestration behind the Fixdesk
// dashboard views. A TaskGroupPage assembles a task group with the details
// its tabs need, a LiveRefresher keeps it current from the live channel and
// an InventoryView serves paged inventory and totals from a single store.
//
// A TaskGroupPage runs every fetch inside its own lifetime; Close cancels
// whatever is still in flight. A LiveRefresher stops when the context given
// to Run ends. An InventoryView holds no goroutines and is dropped with its
// owner; Invalidate forces the next read to reload.
package dashboard
