// Package sentiment implements the keyword classifier and the deferred
// analysis of submitted messages.
//
// Classification is a deterministic substring rule over two fixed word lists;
// the Analyzer schedules one delayed task per message that classifies, updates
// the store and broadcasts the result. Tasks are never cancelled once
// scheduled, so sentiment updates outlive the submitter's connection.
package sentiment
