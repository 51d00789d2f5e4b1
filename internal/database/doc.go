// Package database implements the MessageStore contract on PostgreSQL.
//
// Connection pooling comes from pgxpool; migrations are a small ordered list
// of idempotent statements run at startup.
package database
