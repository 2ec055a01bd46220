// Package config loads application settings.
//
// Settings start from Default, are overlaid by an optional YAML file and then
// by environment variables:
//
//	QDRANT_URL, QDRANT_API_KEY          index.qdrant
//	EMBEDDING_HOST, EMBEDDING_MODEL     embedder
//	EMBEDDING_API_KEY                   embedder.api_key
//	BOOKRAG_DOCS_DIR                    ingest.docs_dir
//
// Fields missing from the file keep their default values.
package config
