// Package pow implements the proof of work puzzle search.
package pow

import (
	"context"
	"errors"

	"github.com/ardanlabs/mycoin/foundation/blockchain/digest"
)

// ErrSearchAborted is returned when the puzzle search is cancelled before
// a solution is found.
var ErrSearchAborted = errors.New("puzzle search aborted")

// checkInterval is how many attempts are made between checks of the
// cancellation signal.
const checkInterval = 1_000

// =============================================================================

// Solve searches for the proof that solves the puzzle for the specified
// previous proof. Candidates start at 1 and are incremented by 1 until
// one is found, so the answer is always the same for the same previous
// proof. The context is checked every checkInterval attempts.
func Solve(ctx context.Context, previous int64, ev func(v string, args ...any)) (int64, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Solve: MINING: started: prevProof[%d]", previous)
	defer ev("pow: Solve: MINING: completed")

	var attempts uint64
	for candidate := int64(1); ; candidate++ {
		attempts++
		if attempts%checkInterval == 0 {
			if ctx.Err() != nil {
				ev("pow: Solve: MINING: CANCELLED: attempts[%d]", attempts)
				return 0, errors.Join(ErrSearchAborted, ctx.Err())
			}
		}

		hash := digest.HashProofs(candidate, previous)
		if !digest.SatisfiesConstraint(hash) {
			continue
		}

		ev("pow: Solve: MINING: SOLVED: proof[%d]: hash[%s]: attempts[%d]", candidate, hash, attempts)

		return candidate, nil
	}
}

// Verify reports whether the proof solves the puzzle for the previous proof.
func Verify(proof int64, previous int64) bool {
	return digest.SatisfiesConstraint(digest.HashProofs(proof, previous))
}
