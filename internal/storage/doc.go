// Package storage provides the embedded key-value engine behind redline's
// saved connections.
//
// The engine is Badger v3. It is opened for the duration of one command
// and closed by the shutdown hooks; there are no background loops.
// Higher-level stores (see storage/credential) define their own key
// layout on top of KVEngine.
package storage
