package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultDimensions matches the vector(768) column of log_embeddings.
const DefaultDimensions = 768

// HashEngine is a deterministic bag-of-words embedder. It needs no model
// server, which makes it the engine for local development and tests.
type HashEngine struct {
	dimensions int
	folder     cases.Caser
}

// NewHashEngine returns a hashing embedder with the given vector length.
func NewHashEngine(dimensions int) *HashEngine {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &HashEngine{dimensions: dimensions, folder: cases.Fold()}
}

// Embed hashes each token into a bucket and L2-normalizes the result.
// Texts with no tokens produce the zero vector.
func (e *HashEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, e.dimensions)
	for _, tok := range e.tokens(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		sign := float32(1)
		if sum&1 == 1 {
			sign = -1
		}
		vec[int(sum>>1)%e.dimensions] += sign
	}

	var norm2 float64
	for _, v := range vec {
		norm2 += float64(v) * float64(v)
	}
	if norm2 == 0 {
		return vec, nil
	}
	inv := float32(1 / math.Sqrt(norm2))
	for i := range vec {
		vec[i] *= inv
	}
	return vec, nil
}

func (e *HashEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedSequential(ctx, e, texts)
}

func (e *HashEngine) Dimensions() int { return e.dimensions }

func (e *HashEngine) Name() string { return "hash" }

func (e *HashEngine) tokens(text string) []string {
	folded := e.folder.String(norm.NFC.String(text))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
