package sse

import (
	"context"

	"github.com/herevemarket/admin_console/internal/models"
)

// HubNotifier records console activities by broadcasting them to the Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// Record broadcasts activity; it is a no-op while nobody listens.
func (n *HubNotifier) Record(_ context.Context, activity models.Activity) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(activityToEvent(activity))
}

func activityToEvent(a models.Activity) *ActivityEvent {
	return &ActivityEvent{
		Event:     EventActivity,
		Action:    a.Action,
		TargetID:  a.TargetID,
		Actor:     a.Actor,
		Timestamp: a.At,
	}
}
