package pow

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
)

// Solver remembers the answers to previous searches. Since the answer only
// depends on the previous proof, every node mining on top of the same proof
// finds the same answer, and a search that is repeated after a cancellation
// or a chain replacement can be answered from memory.
type Solver struct {
	cache *lru.Cache
	ev    func(v string, args ...any)
}

// NewSolver constructs a solver that remembers up to size answers.
func NewSolver(size int, ev func(v string, args ...any)) (*Solver, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	s := Solver{
		cache: cache,
		ev:    ev,
	}

	return &s, nil
}

// Solve returns the proof that solves the puzzle for the previous proof.
func (s *Solver) Solve(ctx context.Context, previous int64) (int64, error) {
	if v, ok := s.cache.Get(previous); ok {
		proof := v.(int64)
		s.ev("pow: Solve: MINING: cached: prevProof[%d]: proof[%d]", previous, proof)
		return proof, nil
	}

	proof, err := Solve(ctx, previous, s.ev)
	if err != nil {
		return 0, err
	}

	s.cache.Add(previous, proof)

	return proof, nil
}

// Len returns the number of answers being remembered.
func (s *Solver) Len() int {
	return s.cache.Len()
}
