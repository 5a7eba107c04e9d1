// Package ingest implements the upload-frame pipeline: decoding
// k-prefixed signal parameters, resolving uploader identity and tenant
// routing, normalizing units, and maintaining a TTL+LRU session cache.
//
// A Service is created once, configured with routes, and fed flattened
// request parameters via Process. Accepted frames become Sessions and
// are handed to the matched route's Sink; the HTTP layer translates
// Process results into wire responses.
package ingest
