// Package server exposes ingestion and retrieval over HTTP.
//
// # Routes
//
//	POST /ingest          run ingestion over the configured docs directory
//	POST /query           {"question": "...", "top_k": 5} -> ranked results
//	GET  /health          liveness
//	GET  /ingest/health   liveness
//	GET  /query/health    liveness
//
// Errors are returned as {"detail": "..."}. POST /ingest answers 404 when
// the docs directory is missing and 500 for any other failure. POST /query
// answers 400 for an unreadable body and 500 when retrieval fails.
package server
