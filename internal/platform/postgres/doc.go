// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX, so the same implementation
// runs against a *sql.DB or inside a *sql.Tx handed out by WithTx.
package postgres
