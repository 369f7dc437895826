// Command wordpack-train builds a codec-B static dictionary from a
// glob of sample files and writes it out pre-compressed as a zero-word
// codec-B stream whose dictionary section NewStaticDecoder can read
// (spec §1: file paths and glob expansion are the outer program's job,
// not the core's).
package main

import (
	"bufio"
	"flag"
	"log"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/go-wordpack/wordpack"
	"github.com/go-wordpack/wordpack/dict"
)

func main() {
	var (
		glob    = flag.String("glob", "", "doublestar glob of training sample files, one word per line")
		out     = flag.String("out", "dict.bin", "output path for the compressed dictionary section")
		maxQuad = flag.Int("max-quad", 0, "override the quad-prefix admission cap (0 = spec default)")
	)
	flag.Parse()
	if *glob == "" {
		log.Fatal("wordpack-train: -glob is required")
	}

	matches, err := doublestar.FilepathGlob(*glob)
	if err != nil {
		log.Fatalf("wordpack-train: expanding glob %q: %v", *glob, err)
	}
	if len(matches) == 0 {
		log.Fatalf("wordpack-train: glob %q matched no files", *glob)
	}

	builder := wordpack.NewDictBuilder(dict.BuildOptions{MaxQuads: *maxQuad})
	var inserted int
	for _, path := range matches {
		n, err := trainOn(builder, path)
		if err != nil {
			log.Fatalf("wordpack-train: training on %s: %v", path, err)
		}
		inserted += n
	}
	log.Printf("wordpack-train: inserted %d words from %d files", inserted, len(matches))

	built := builder.Build()
	log.Printf("wordpack-train: admitted %d dictionary entries", built.Len())

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("wordpack-train: creating %s: %v", *out, err)
	}
	defer f.Close()

	// wordpack-train packs a zero-word StaticEncoder stream whose header
	// and dictionary section NewStaticDecoder can read back. The training
	// words are not passed to the encoder, so the word alphabet stored
	// with the dictionary is built from no words.
	enc, err := wordpack.NewStaticEncoder(f, built, nil, wordpack.EncoderOptions{})
	if err != nil {
		log.Fatalf("wordpack-train: opening static encoder: %v", err)
	}
	if err := enc.Close(); err != nil {
		log.Fatalf("wordpack-train: closing static encoder: %v", err)
	}
}

// trainOn inserts every newline-separated word in path into builder.
func trainOn(builder *wordpack.DictBuilder, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := builder.Insert(line); err != nil {
			return n, err
		}
		n++
	}
	return n, sc.Err()
}
