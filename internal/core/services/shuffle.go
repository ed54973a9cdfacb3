package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"
)

// shuffleUsers returns a uniformly random permutation of ids (Fisher-Yates)
// drawing indices from r. The input slice is not modified.
func shuffleUsers(ids []uuid.UUID, r io.Reader) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)

	for i := len(out) - 1; i > 0; i-- {
		n, err := rand.Int(r, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, fmt.Errorf("draw shuffle index: %w", err)
		}
		j := int(n.Int64())
		out[i], out[j] = out[j], out[i]
	}

	return out, nil
}
