// Package redisstore implements the MessageStore contract on Redis.
//
// Layout: a counter key hands out ids, each message lives as a JSON string
// under its own key, and a sorted set scored by id keeps the history in
// creation order. The client carries metrics and circuit breaker hooks so a
// sick Redis degrades loudly instead of hanging the chat.
package redisstore
