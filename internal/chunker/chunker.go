// Package chunker implements the token-bounded overlapping chunk builder: a
// sliding, sentence-granular window over each labeled transcript segment.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"interview-ingest-go/internal/tokenizer"
	"interview-ingest-go/internal/transcript"
)

// Splitter is the sentence segmentation dependency; satisfied by
// sentence.Segmenter.
type Splitter interface {
	Split(text string) []string
}

// Meta is the document-level metadata inherited by every chunk.
type Meta struct {
	Candidate string
	VideoID   string
	URL       string
}

type Builder struct {
	enc     tokenizer.Encoder
	seg     Splitter
	size    int
	overlap int
}

func New(enc tokenizer.Encoder, seg Splitter, chunkSize, chunkOverlap int) *Builder {
	return &Builder{enc: enc, seg: seg, size: chunkSize, overlap: chunkOverlap}
}

// ChunkSegment yields the overlapping chunks of one segment, in order. The
// token budget is a soft ceiling: a single sentence longer than the budget is
// never split and becomes its own chunk. Empty segment text yields no chunks.
func (b *Builder) ChunkSegment(seg transcript.Segment, meta Meta) ([]transcript.Chunk, error) {
	var (
		chunks    []transcript.Chunk
		buf       []string
		bufTokens []int
		total     int
	)

	for _, sent := range b.seg.Split(seg.Text) {
		n, err := b.count(sent)
		if err != nil {
			return nil, err
		}

		if total+n > b.size && len(buf) > 0 {
			c, err := b.flush(buf, seg, meta)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, c)

			// keep a tail of sentences within the overlap budget; it becomes
			// the shared prefix of the next chunk
			for len(buf) > 0 && total > b.overlap {
				total -= bufTokens[0]
				buf = buf[1:]
				bufTokens = bufTokens[1:]
			}
		}

		buf = append(buf, sent)
		bufTokens = append(bufTokens, n)
		total += n
	}

	if len(buf) > 0 {
		c, err := b.flush(buf, seg, meta)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// ChunkDocument chunks every segment of a labeled document into one ordered
// slice. stem is the artifact file name without extension, used for metadata
// fallbacks when the document carries none.
func (b *Builder) ChunkDocument(doc *transcript.Document, stem string) ([]transcript.Chunk, error) {
	meta := InferMeta(doc, stem)
	var out []transcript.Chunk
	for i, seg := range doc.Segments {
		chunks, err := b.ChunkSegment(seg, meta)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		out = append(out, chunks...)
	}
	return out, nil
}

func (b *Builder) count(text string) (int, error) {
	ids, err := b.enc.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (b *Builder) flush(buf []string, seg transcript.Segment, meta Meta) (transcript.Chunk, error) {
	text := strings.Join(buf, " ")
	n, err := b.count(text)
	if err != nil {
		return transcript.Chunk{}, err
	}
	return transcript.Chunk{
		ID:        uuid.NewString(),
		Text:      text,
		NTokens:   n,
		Speaker:   seg.Speaker,
		Role:      seg.Role,
		Start:     seg.Start,
		End:       seg.End,
		Candidate: meta.Candidate,
		VideoID:   meta.VideoID,
		URL:       meta.URL,
	}, nil
}
