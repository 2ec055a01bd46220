// Package bookrag ingests a directory of Markdown documents into a vector
// index and answers questions by nearest-neighbour search over it.
//
// An Engine is opened from a config.Config and shares one index and one
// embedder between the pipelines it creates:
//
//	cfg, err := config.Load("bookrag.yaml")
//	engine, err := bookrag.Open(cfg)
//	defer engine.Close()
//
//	pipeline, err := engine.NewIngestionPipeline()
//	summary, err := pipeline.Ingest(ctx, cfg.Ingest.DocsDir)
//
//	searcher, err := engine.NewSearcher()
//	results, err := searcher.Query(ctx, "What is inverse kinematics?", 5)
//
// Storage backends live under storage/, embedders under ai/.
package bookrag
