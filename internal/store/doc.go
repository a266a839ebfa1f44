// Package store defines the persistence contracts the core consumes:
// progress state per vocabulary item, word-list content, and session
// history. Concrete implementations live under internal/platform; the
// scheduling and session code depends only on the interfaces here.
package store
