// Package server exposes an item store over HTTP for `shoplist serve`.
//
// Routes:
//
//	GET    /healthz       liveness and subscriber count
//	GET    /items         list items
//	POST   /items         create an item (201)
//	GET    /items/{id}    fetch one item
//	PUT    /items/{id}    replace an item
//	DELETE /items/{id}    delete an item (204)
//	GET    /events        websocket change feed
//
// Items are JSON objects of the form {"id":1,"name":"Books","quantity":1,"price":7}.
// Invalid items are rejected with 422 and an {"error": "..."} body.
//
// Every successful mutation is pushed to websocket subscribers as an Event:
//
//	{"type":"updated","id":1,"item":{...},"at":"2025-01-02T15:04:05Z"}
//
// Subscribe is the client side of the feed; EventsURL derives the feed URL
// from a collection URL.
//
// When advertising is enabled the server registers itself over mDNS so
// `shoplist --discover` can find it.
package server
