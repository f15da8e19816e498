// Package memstore implements durable.IDurableStore in memory with one google/btree
// per collection. It keeps created and updated timestamps like the SQL backend but
// does not survive a restart.
package memstore
