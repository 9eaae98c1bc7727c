package pow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/mycoin/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Solve(t *testing.T) {
	type table struct {
		name     string
		previous int64
		proof    int64
	}

	tt := []table{
		{name: "genesis", previous: 1, proof: 533},
		{name: "second", previous: 533, proof: 45293},
		{name: "third", previous: 45293, proof: 21391},
	}

	t.Log("Given the need to solve the proof of work puzzle.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen solving for previous proof %d.", testID, tst.previous)
				{
					proof, err := pow.Solve(context.Background(), tst.previous, nil)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to solve the puzzle: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to solve the puzzle.", success, testID)

					if proof != tst.proof {
						t.Logf("\t\tTest %d:\tgot: %d", testID, proof)
						t.Logf("\t\tTest %d:\texp: %d", testID, tst.proof)
						t.Fatalf("\t%s\tTest %d:\tShould get back the golden proof.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the golden proof.", success, testID)

					if !pow.Verify(proof, tst.previous) {
						t.Fatalf("\t%s\tTest %d:\tShould verify the proof it found.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould verify the proof it found.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_SolveCancelled(t *testing.T) {
	t.Log("Given the need to abort a puzzle search.")
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// The answer for 533 is 45293, well past the first cancellation check.
		_, err := pow.Solve(ctx, 533, nil)
		if !errors.Is(err, pow.ErrSearchAborted) {
			t.Logf("\t\tgot: %v", err)
			t.Logf("\t\texp: %v", pow.ErrSearchAborted)
			t.Fatalf("\t%s\tShould get back the search aborted error.", failed)
		}
		t.Logf("\t%s\tShould get back the search aborted error.", success)

		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould carry the context error.", failed)
		}
		t.Logf("\t%s\tShould carry the context error.", success)
	}
}

func Test_Verify(t *testing.T) {
	t.Log("Given the need to verify proofs.")
	{
		if pow.Verify(532, 1) {
			t.Fatalf("\t%s\tShould reject a proof that does not solve the puzzle.", failed)
		}
		t.Logf("\t%s\tShould reject a proof that does not solve the puzzle.", success)
	}
}

func Test_Solver(t *testing.T) {
	t.Log("Given the need to remember puzzle answers.")
	{
		solver, err := pow.NewSolver(8, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a solver: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct a solver.", success)

		proof, err := solver.Solve(context.Background(), 1)
		if err != nil || proof != 533 {
			t.Fatalf("\t%s\tShould get back the golden proof, got %d: %v", failed, proof, err)
		}
		t.Logf("\t%s\tShould get back the golden proof.", success)

		if solver.Len() != 1 {
			t.Fatalf("\t%s\tShould remember the answer.", failed)
		}
		t.Logf("\t%s\tShould remember the answer.", success)

		// A cancelled context can only be answered from memory.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		proof, err = solver.Solve(ctx, 1)
		if err != nil || proof != 533 {
			t.Fatalf("\t%s\tShould answer from memory, got %d: %v", failed, proof, err)
		}
		t.Logf("\t%s\tShould answer from memory.", success)

		if _, err := solver.Solve(ctx, 533); !errors.Is(err, pow.ErrSearchAborted) {
			t.Fatalf("\t%s\tShould still abort a search it has not seen.", failed)
		}
		t.Logf("\t%s\tShould still abort a search it has not seen.", success)

		if _, err := pow.NewSolver(0, nil); err == nil {
			t.Fatalf("\t%s\tShould reject a cache without room.", failed)
		}
		t.Logf("\t%s\tShould reject a cache without room.", success)
	}
}
