// Package events carries lifecycle notifications from the services to
// in-process subscribers such as the metrics collector and the audit log.
//
// The primary components are:
//   - Event: a record creation, a status change or a quota denial
//   - EventHandler: implemented by subscribers
//   - EventEmitter: implemented by InMemoryEventEmitter and used by services
package events
