// Package events defines the topics and payloads published by the page editor,
// and the typed Notifier through which components publish them.
package events
