// Package qdrant implements storage.Index against the Qdrant REST API.
//
// Responses are decoded into explicit schema types. A response that does not
// match the schema (invalid JSON, wrong field types, a missing result) fails
// with core.ErrMalformedResponse. Payload fields that are absent default to
// their zero values, and chunk text falls back to the legacy "content" key.
package qdrant
