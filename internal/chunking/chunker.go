package chunking

import (
	"strings"
	"unicode/utf8"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
)

// Config controls chunk sizing. ChunkSize is a soft maximum in runes;
// Overlap is the trailing context carried into the next chunk and must be
// strictly smaller than ChunkSize.
type Config struct {
	ChunkSize int
	Overlap   int
}

// DefaultConfig provides sane defaults for chunking.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 512,
		Overlap:   128,
	}
}

func validateConfig(cfg Config) error {
	if cfg.ChunkSize <= 0 {
		return domain.ErrInvalidChunkSize
	}
	if cfg.Overlap < 0 {
		return domain.NewDomainError(domain.ErrCodeConfig, "overlap cannot be negative")
	}
	if cfg.Overlap >= cfg.ChunkSize {
		return domain.ErrOverlapTooLarge
	}
	return nil
}

// OverlapChunker groups consecutive sentences into soft-size-bounded chunks,
// carrying a tail of sentences into the next chunk for context continuity.
type OverlapChunker struct {
	chunkSize int
	overlap   int
}

// NewOverlapChunker creates an OverlapChunker, failing with a CONFIG_ERROR
// when overlap >= chunk size.
func NewOverlapChunker(cfg Config) (*OverlapChunker, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &OverlapChunker{chunkSize: cfg.ChunkSize, overlap: cfg.Overlap}, nil
}

// ChunkText splits text into overlapping chunks at sentence boundaries.
// Offsets are rune positions into the normalized text. A document with a
// single short sentence yields exactly one chunk.
func (c *OverlapChunker) ChunkText(text, documentID string) ([]domain.Chunk, error) {
	normalized := NormalizeText(text)
	if normalized == "" {
		return nil, domain.ErrEmptyInput
	}

	sentences := SplitSentences(normalized)

	chunks := make([]domain.Chunk, 0, 4)
	var buf []string
	bufLen := 0
	chunkIndex := 0
	startChar := 0

	for _, sentence := range sentences {
		sentLen := utf8.RuneCountInString(sentence)

		// Finalize the current chunk before this sentence would push it
		// past the soft limit.
		if len(buf) > 0 && bufLen+sentLen > c.chunkSize {
			joined := strings.Join(buf, " ")
			endChar := startChar + utf8.RuneCountInString(joined)

			chunks = append(chunks, domain.Chunk{
				DocumentID: documentID,
				ChunkIndex: chunkIndex,
				Text:       joined,
				StartChar:  startChar,
				EndChar:    endChar,
			})

			// Seed the next buffer with the trailing sentences that fit
			// in the overlap window. The original sentences are carried
			// directly rather than re-split from joined text.
			buf = c.overlapTail(buf)
			bufLen = joinedRuneLen(buf)
			startChar = endChar - bufLen
			chunkIndex++
		}

		buf = append(buf, sentence)
		bufLen += sentLen + 1
	}

	if len(buf) > 0 {
		joined := strings.Join(buf, " ")
		endChar := startChar + utf8.RuneCountInString(joined)
		chunks = append(chunks, domain.Chunk{
			DocumentID: documentID,
			ChunkIndex: chunkIndex,
			Text:       joined,
			StartChar:  startChar,
			EndChar:    endChar,
		})
	}

	return chunks, nil
}

// overlapTail returns the longest suffix of sentences whose cumulative
// length (sentence + separating space) stays within the overlap window,
// preserving order.
func (c *OverlapChunker) overlapTail(sentences []string) []string {
	if c.overlap <= 0 {
		return nil
	}

	cut := len(sentences)
	total := 0
	for cut > 0 {
		l := utf8.RuneCountInString(sentences[cut-1]) + 1
		if total+l > c.overlap {
			break
		}
		total += l
		cut--
	}

	if cut == len(sentences) {
		return nil
	}
	tail := make([]string, len(sentences)-cut)
	copy(tail, sentences[cut:])
	return tail
}

func joinedRuneLen(sentences []string) int {
	if len(sentences) == 0 {
		return 0
	}
	total := len(sentences) - 1
	for _, s := range sentences {
		total += utf8.RuneCountInString(s)
	}
	return total
}
