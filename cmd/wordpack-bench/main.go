// Command wordpack-bench compresses a newline-separated word corpus with
// codec A and reports its ratio and throughput alongside a handful of
// general-purpose compressors run over the same concatenated bytes, for
// comparison only — none of these libraries are used by the core codec
// itself (spec §1 non-goals: "benchmarking harnesses ... are outer
// collaborators").
package main

import (
	"bufio"
	"bytes"
	"flag"
	"log"
	"os"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/go-wordpack/wordpack"
)

func main() {
	in := flag.String("in", "", "newline-separated word corpus")
	flag.Parse()
	if *in == "" {
		log.Fatal("wordpack-bench: -in is required")
	}

	words, err := readWords(*in)
	if err != nil {
		log.Fatalf("wordpack-bench: reading %s: %v", *in, err)
	}
	var rawSize int
	for _, w := range words {
		rawSize += len(w)
	}
	log.Printf("wordpack-bench: %d words, %d raw bytes", len(words), rawSize)

	runWordpack(words, rawSize)

	var flat bytes.Buffer
	for _, w := range words {
		flat.Write(w)
	}
	runZstd(flat.Bytes())
	runSnappy(flat.Bytes())
	runLZ4(flat.Bytes())
}

func readWords(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words [][]byte
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		words = append(words, append([]byte(nil), line...))
	}
	return words, sc.Err()
}

func runWordpack(words [][]byte, rawSize int) {
	var buf bytes.Buffer
	start := time.Now()
	enc, err := wordpack.NewEncoder(&seekBuffer{buf: &buf}, wordpack.EncoderOptions{})
	if err != nil {
		log.Fatalf("wordpack-bench: codec A: %v", err)
	}
	for _, w := range words {
		if err := enc.AddWord(w); err != nil {
			log.Fatalf("wordpack-bench: codec A AddWord: %v", err)
		}
	}
	if err := enc.Close(); err != nil {
		log.Fatalf("wordpack-bench: codec A Close: %v", err)
	}
	report("wordpack codec A", rawSize, buf.Len(), time.Since(start))
}

func runZstd(flat []byte) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		log.Fatalf("wordpack-bench: zstd: %v", err)
	}
	defer enc.Close()
	start := time.Now()
	out := enc.EncodeAll(flat, nil)
	report("zstd", len(flat), len(out), time.Since(start))
}

func runSnappy(flat []byte) {
	start := time.Now()
	out := snappy.Encode(nil, flat)
	report("snappy", len(flat), len(out), time.Since(start))
}

func runLZ4(flat []byte) {
	start := time.Now()
	out := make([]byte, lz4.CompressBlockBound(len(flat)))
	var c lz4.Compressor
	n, err := c.CompressBlock(flat, out)
	if err != nil {
		log.Fatalf("wordpack-bench: lz4: %v", err)
	}
	report("lz4", len(flat), n, time.Since(start))
}

func report(name string, rawSize, compressedSize int, elapsed time.Duration) {
	ratio := float64(rawSize) / float64(compressedSize)
	mbps := float64(rawSize) / 1e6 / elapsed.Seconds()
	log.Printf("%-16s %8d -> %8d bytes  ratio %.2fx  %.1f MB/s", name, rawSize, compressedSize, ratio, mbps)
}

// seekBuffer adapts a bytes.Buffer to io.WriteSeeker, the way a test
// harness stands in for a real file when only a ratio number is wanted.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int64
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	b := s.buf.Bytes()
	if int(s.pos) < len(b) {
		n := copy(b[s.pos:], p)
		s.pos += int64(n)
		if n < len(p) {
			s.buf.Write(p[n:])
			s.pos = int64(s.buf.Len())
		}
		return len(p), nil
	}
	n, err := s.buf.Write(p)
	s.pos += int64(n)
	return n, err
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(s.buf.Len()) + offset
	}
	return s.pos, nil
}
