package event

import (
	"fmt"
	"sync"
)

type EventFunc func(v interface{})

type EventQueue struct {
	sync.RWMutex
	nextID      int
	subscribers map[EventType]map[int]EventFunc
}

var Queue = NewEventQueue()

func NewEventQueue() *EventQueue {
	return &EventQueue{
		subscribers: make(map[EventType]map[int]EventFunc),
	}
}

// Subscribe adds a new subscriber to eventType and returns its id.
func (eq *EventQueue) Subscribe(eventType EventType, eventFunc EventFunc) int {
	eq.Lock()
	defer eq.Unlock()

	if eq.subscribers[eventType] == nil {
		eq.subscribers[eventType] = make(map[int]EventFunc)
	}
	id := eq.nextID
	eq.nextID++
	eq.subscribers[eventType][id] = eventFunc

	return id
}

// Unsubscribe removes the specified subscriber
func (eq *EventQueue) Unsubscribe(eventType EventType, subscriberID int) error {
	eq.Lock()
	defer eq.Unlock()

	if _, ok := eq.subscribers[eventType][subscriberID]; !ok {
		return fmt.Errorf("no subscriber %v for event %v", subscriberID, eventType)
	}
	delete(eq.subscribers[eventType], subscriberID)

	return nil
}

// Notify calls every subscriber of eventType in its own goroutine.
func (eq *EventQueue) Notify(eventType EventType, value interface{}) {
	eq.RLock()
	defer eq.RUnlock()

	for _, f := range eq.subscribers[eventType] {
		go f(value)
	}
}
