// Package store provides the in-memory MessageStore backend.
//
// Messages are owned exclusively by the store: every method hands out copies,
// never aliases into internal state. Redis and Postgres backends live in
// subpackage redisstore and package database respectively.
package store
