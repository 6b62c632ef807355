// Package events provides the lifecycle event surface between the task
// tracker and its views.
//
// The tracker emits events without knowing which views render them. The
// primary components are:
// - TaskEvent: a single lifecycle change for one task
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
// - View: callback-style interface, adapted to an EventHandler by ViewHandler
package events
