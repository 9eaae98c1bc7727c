package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
	"github.com/ardanlabs/mycoin/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var start = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// mineChain builds a valid chain of the specified length starting at
// genesis the same way a node does.
func mineChain(t *testing.T, length int) []database.Block {
	chain := []database.Block{database.NewGenesis(start)}

	for i := 1; i < length; i++ {
		parent := chain[len(chain)-1]

		proof, err := pow.Solve(context.Background(), parent.Proof, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to solve the puzzle: %s", failed, err)
		}

		trans := []database.Transaction{{Sender: "alice", Receiver: "bob", Amount: float64(i)}}
		block := database.NewBlock(parent, uint64(i), proof, parent.Hash(), trans, start.Add(time.Duration(i)*time.Second))
		chain = append(chain, block)
	}

	return chain
}

func Test_BlockHash(t *testing.T) {
	type table struct {
		name  string
		block database.Block
		hash  string
	}

	tt := []table{
		{
			name:  "genesis",
			block: database.NewGenesis(start),
			hash:  "9f5678b29ee8a79a83d0e91b20dfd5e5ca32f283bb9c3a77aed3f7b8caa45a21",
		},
		{
			name: "transactions",
			block: database.Block{
				Index:        1,
				PreviousHash: "abc",
				Proof:        533,
				Timestamp:    "2026-01-01 00:00:01.000000",
				Transactions: []database.Transaction{{Sender: "alice", Receiver: "bob", Amount: 10.5}},
			},
			hash: "678c547f38e5b627574d8e3ef6db745165fbbfc97cb19c36d49a3bf5059f3881",
		},
	}

	t.Log("Given the need to hash blocks canonically.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := tst.block.Hash()
				if got != tst.hash {
					t.Logf("\t\tTest %d:\tgot: %s", testID, got)
					t.Logf("\t\tTest %d:\texp: %s", testID, tst.hash)
					t.Fatalf("\t%s\tTest %d:\tShould get back the golden hash.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the golden hash.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_BlockHashNilTransactions(t *testing.T) {
	t.Log("Given the need to hash a block without transactions.")
	{
		withNil := database.NewGenesis(start)
		withNil.Transactions = nil

		if withNil.Hash() != database.NewGenesis(start).Hash() {
			t.Fatalf("\t%s\tShould hash a nil and an empty transaction list the same.", failed)
		}
		t.Logf("\t%s\tShould hash a nil and an empty transaction list the same.", success)
	}
}

func Test_NewBlockTimestamp(t *testing.T) {
	t.Log("Given the need to keep timestamps from going backwards.")
	{
		parent := database.NewGenesis(start)
		block := database.NewBlock(parent, 1, 533, parent.Hash(), nil, start.Add(-time.Hour))

		if block.Timestamp != parent.Timestamp {
			t.Logf("\t\tgot: %s", block.Timestamp)
			t.Logf("\t\texp: %s", parent.Timestamp)
			t.Fatalf("\t%s\tShould use the parent timestamp when the clock is behind.", failed)
		}
		t.Logf("\t%s\tShould use the parent timestamp when the clock is behind.", success)

		if block.Transactions == nil {
			t.Fatalf("\t%s\tShould never store a nil transaction list.", failed)
		}
		t.Logf("\t%s\tShould never store a nil transaction list.", success)
	}
}

func Test_ValidateChain(t *testing.T) {
	chain := mineChain(t, 4)

	t.Log("Given the need to validate a chain.")
	{
		t.Logf("\tTest 0:\tWhen handling a mined chain.")
		{
			if err := database.ValidateChain(chain); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be valid: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be valid.", success)

			if !database.IsChainValid(chain[:1]) {
				t.Fatalf("\t%s\tTest 0:\tShould treat a genesis only chain as valid.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould treat a genesis only chain as valid.", success)
		}

		t.Logf("\tTest 1:\tWhen a previous hash has been altered.")
		{
			bad := make([]database.Block, len(chain))
			copy(bad, chain)
			bad[2].PreviousHash = "0000deadbeef"

			err := database.ValidateChain(bad)
			if !errors.Is(err, database.ErrInvalidChain) {
				t.Fatalf("\t%s\tTest 1:\tShould get back an invalid chain error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get back an invalid chain error.", success)
		}

		t.Logf("\tTest 2:\tWhen a transaction has been altered.")
		{
			bad := make([]database.Block, len(chain))
			copy(bad, chain)
			bad[1].Transactions = []database.Transaction{{Sender: "alice", Receiver: "mallory", Amount: 1}}

			if database.IsChainValid(bad) {
				t.Fatalf("\t%s\tTest 2:\tShould detect the altered block through the next link.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould detect the altered block through the next link.", success)
		}

		t.Logf("\tTest 3:\tWhen a proof doesn't solve the puzzle.")
		{
			bad := make([]database.Block, len(chain))
			copy(bad, chain)
			bad[3].Proof = 1

			if database.IsChainValid(bad) {
				t.Fatalf("\t%s\tTest 3:\tShould reject the bad proof.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould reject the bad proof.", success)
		}
	}
}

func Test_ToChain(t *testing.T) {
	i := func(v int) *int { return &v }
	u := func(v uint64) *uint64 { return &v }
	p := func(v int64) *int64 { return &v }
	s := func(v string) *string { return &v }
	fl := func(v float64) *float64 { return &v }

	genesis := database.BlockData{
		Index:        u(0),
		PreviousHash: s("0"),
		Proof:        p(1),
		Timestamp:    s("2026-01-01 00:00:00.000000"),
		Transactions: []database.TransactionData{},
	}

	type table struct {
		name    string
		data    database.ChainData
		success bool
	}

	tt := []table{
		{
			name:    "valid",
			data:    database.ChainData{Chain: []database.BlockData{genesis}, Length: i(1)},
			success: true,
		},
		{
			name: "transactions",
			data: database.ChainData{
				Chain: []database.BlockData{{
					Index:        u(1),
					PreviousHash: s("abc"),
					Proof:        p(533),
					Timestamp:    s("2026-01-01 00:00:01.000000"),
					Transactions: []database.TransactionData{{Amount: fl(0), Receiver: s("bob"), Sender: s("alice")}},
				}},
				Length: i(1),
			},
			success: true,
		},
		{
			name:    "length",
			data:    database.ChainData{Chain: []database.BlockData{genesis}, Length: i(2)},
			success: false,
		},
		{
			name:    "missing-length",
			data:    database.ChainData{Chain: []database.BlockData{genesis}},
			success: false,
		},
		{
			name:    "empty",
			data:    database.ChainData{Chain: []database.BlockData{}, Length: i(0)},
			success: false,
		},
		{
			name: "missing-proof",
			data: database.ChainData{
				Chain:  []database.BlockData{{Index: u(0), PreviousHash: s("0"), Timestamp: s("x"), Transactions: []database.TransactionData{}}},
				Length: i(1),
			},
			success: false,
		},
		{
			name: "missing-transactions",
			data: database.ChainData{
				Chain:  []database.BlockData{{Index: u(0), PreviousHash: s("0"), Proof: p(1), Timestamp: s("x")}},
				Length: i(1),
			},
			success: false,
		},
		{
			name: "missing-sender",
			data: database.ChainData{
				Chain: []database.BlockData{{
					Index:        u(0),
					PreviousHash: s("0"),
					Proof:        p(1),
					Timestamp:    s("x"),
					Transactions: []database.TransactionData{{Amount: fl(1), Receiver: s("bob")}},
				}},
				Length: i(1),
			},
			success: false,
		},
	}

	t.Log("Given the need to convert peer chain payloads.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				blocks, err := database.ToChain(tst.data)
				switch tst.success {
				case true:
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to convert the payload: %s", failed, testID, err)
					}
					if len(blocks) != len(tst.data.Chain) {
						t.Fatalf("\t%s\tTest %d:\tShould get back every block.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to convert the payload.", success, testID)

				case false:
					if err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject the payload.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the payload: %s", success, testID, err)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Database(t *testing.T) {
	t.Log("Given the need to manage the chain in memory.")
	{
		genesis := database.NewGenesis(start)
		db := database.New(genesis)

		if db.Length() != 1 || db.LatestBlock().Hash() != genesis.Hash() {
			t.Fatalf("\t%s\tShould start with only the genesis block.", failed)
		}
		t.Logf("\t%s\tShould start with only the genesis block.", success)

		chain := mineChain(t, 3)
		db.Write(chain[1])
		if db.Length() != 2 || db.LatestBlock().Proof != chain[1].Proof {
			t.Fatalf("\t%s\tShould append the block to the tail.", failed)
		}
		t.Logf("\t%s\tShould append the block to the tail.", success)

		cpy := db.Copy()
		cpy[0].Proof = 99
		if blk, _ := db.GetBlock(0); blk.Proof != database.GenesisProof {
			t.Fatalf("\t%s\tShould hand out copies of the chain.", failed)
		}
		t.Logf("\t%s\tShould hand out copies of the chain.", success)

		if err := db.Replace(chain); err != nil {
			t.Fatalf("\t%s\tShould be able to replace the chain: %s", failed, err)
		}
		if db.Length() != 3 {
			t.Fatalf("\t%s\tShould hold the replaced chain.", failed)
		}
		t.Logf("\t%s\tShould hold the replaced chain.", success)

		if err := db.Replace(nil); err == nil {
			t.Fatalf("\t%s\tShould reject an empty replacement.", failed)
		}
		t.Logf("\t%s\tShould reject an empty replacement.", success)

		if _, err := db.GetBlock(10); !errors.Is(err, database.ErrNotFound) {
			t.Fatalf("\t%s\tShould get back not found for a missing block.", failed)
		}
		t.Logf("\t%s\tShould get back not found for a missing block.", success)
	}
}
