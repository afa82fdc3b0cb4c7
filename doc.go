// Package postag tags text with part-of-speech labels and returns a uniform
// sentence/token representation regardless of the engine that produced it.
//
// # Quick Start
//
//	backend, err := corenlp.New(ctx, corenlp.WithLanguage("en"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tagger, err := postag.New(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := tagger.Tag(ctx, "Write your code in a file. Thank you.")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sent := range doc {
//	    fmt.Println(sent)
//	}
//
// # Engines Without Sentence Segmentation
//
// Some engines (MeCab for Korean, token-classification models) return a flat
// token/tag stream. NewFlat wraps such an engine in a Reconstructor that turns
// a sentence-final tag into synthetic punctuation, runs a punctuation-based
// splitter over the result and re-tags every sentence.
//
//	tagger, err := postag.NewFlat(mecabBackend, "EF")
//
// # Engines
//
// Engine adapters live in sub-packages: backend/corenlp (CoreNLP server,
// segmenting), backend/mecab (MeCab subprocess), backend/neural (ONNX
// token-classification model) and backend/lexicon (YAML dictionary).
//
// # Encodings
//
// A Document can be rendered as a flat string (`text|tag` tokens joined by
// spaces, sentences joined by "[ENDSENT]"), as JSON, or in protobuf wire
// format. Encoder.Decode and Document.UnmarshalBinary reverse the first and
// last of those.
//
// # Thread Safety
//
// A Tagger is not safe for concurrent use. Engines are initialized once and
// reused across calls; callers wanting parallel throughput should create one
// Tagger per worker.
package postag
