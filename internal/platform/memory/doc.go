// Package memory implements the store interfaces in process memory.
//
// It serves as the `memory` database driver for local runs and as the
// backing store for service and API tests. WithinTx serializes transactions
// behind one mutex and works on a copy of the data that replaces the live
// copy only when the transaction function succeeds.
package memory
