package event

import (
	"testhub/common"
)

// EventHandler returns nil when the event is not supported. Handlers run after
// the owning transaction committed; a failing handler is logged and never
// affects the committed transition.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

func invokeHandlers(record *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, handler := range EventHandlers {
		common.Log.Debug("pre handle event ", record.Event)
		r := handler(record)

		if r == nil {
			continue
		}

		results = append(results, *r)

		if r.Success {
			common.Log.Info("post handle event. ", r)
		} else {
			common.Log.Error("post handler error. ", r)
		}
	}
	return results
}
