// Command wordpack-gen writes a newline-separated corpus of random
// words, suitable as input to wordpack-train or as a synthetic stream
// for exercising Encoder/StaticEncoder (spec §1: random input generators
// are an outer collaborator, not part of the core).
package main

import (
	"bufio"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/xyproto/randomstring"
)

func main() {
	var (
		out      = flag.String("out", "words.txt", "output path")
		count    = flag.Int("count", 10000, "number of words to generate")
		minLen   = flag.Int("min", 3, "minimum word length")
		maxLen   = flag.Int("max", 24, "maximum word length")
		seed     = flag.Int64("seed", 0, "rand seed (0 = time-based)")
	)
	flag.Parse()
	if *minLen < 1 || *maxLen < *minLen {
		log.Fatalf("wordpack-gen: invalid length range [%d, %d]", *minLen, *maxLen)
	}

	rng := rand.New(rand.NewSource(*seed))
	if *seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("wordpack-gen: creating %s: %v", *out, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	span := *maxLen - *minLen + 1
	for i := 0; i < *count; i++ {
		n := *minLen + rng.Intn(span)
		word := randomstring.CookieFriendlyString(n)
		if _, err := w.WriteString(word); err != nil {
			log.Fatalf("wordpack-gen: writing word %d: %v", i, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			log.Fatalf("wordpack-gen: writing newline %d: %v", i, err)
		}
	}
	log.Printf("wordpack-gen: wrote %d words to %s", *count, *out)
}
