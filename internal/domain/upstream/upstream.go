// Package upstream describes the football data provider the service reads
// from. Implementations live under external/.
package upstream

import (
	"context"
	"net/url"
)

const (
	EndpointFixtures          = "fixtures"
	EndpointFixtureStatistics = "fixtures/statistics"
	EndpointFixtureEvents     = "fixtures/events"
	EndpointHeadToHead        = "fixtures/headtohead"
	EndpointPredictions       = "predictions"
	EndpointTeams             = "teams"
	EndpointTeamStatistics    = "teams/statistics"
)

// Provider issues read-only queries against the provider. Request never
// fails: transport, status and decode errors all yield Empty().
type Provider interface {
	Request(ctx context.Context, endpoint string, query url.Values) Response
}

// Response is a decoded provider envelope, {"response": ...}.
type Response map[string]any

func Empty() Response {
	return Response{"response": []any{}}
}

// Items returns the response array. Object responses and missing envelopes
// give nil.
func (r Response) Items() []any {
	if r == nil {
		return nil
	}
	items, _ := r["response"].([]any)
	return items
}

// Object returns the response when the provider answered with a single
// object, as teams/statistics does.
func (r Response) Object() map[string]any {
	if r == nil {
		return nil
	}
	obj, _ := r["response"].(map[string]any)
	return obj
}

// First returns the first object of the response array.
func (r Response) First() map[string]any {
	for _, item := range r.Items() {
		if obj, ok := item.(map[string]any); ok {
			return obj
		}
	}
	return nil
}

// Objects returns the array elements that are JSON objects.
func (r Response) Objects() []map[string]any {
	items := r.Items()
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func (r Response) IsEmpty() bool {
	return len(r.Items()) == 0 && len(r.Object()) == 0
}
