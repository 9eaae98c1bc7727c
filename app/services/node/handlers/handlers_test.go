package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/mycoin/app/services/node/handlers"
	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
	"github.com/ardanlabs/mycoin/foundation/blockchain/state"
	"github.com/ardanlabs/mycoin/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// node represents a running node for the tests.
type node struct {
	state   *state.State
	public  http.Handler
	private http.Handler
}

func newNode(t *testing.T) node {
	st, err := state.New(state.Config{
		MinerAccount: "miner1",
		MiningReward: 1,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %s", failed, err)
	}

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Origin:   "*",
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     events.New(),
	}

	return node{
		state:   st,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
	}
}

// call executes the request against the handler and decodes the response.
func call(t *testing.T, h http.Handler, method string, path string, body string, statusCode int, resp any) {
	var r *http.Request
	switch body {
	case "":
		r = httptest.NewRequest(method, path, nil)
	default:
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	if w.Code != statusCode {
		t.Logf("\t\tbody: %s", w.Body.String())
		t.Fatalf("\t%s\tShould receive a status code of %d for %s %s : %d", failed, statusCode, method, path, w.Code)
	}
	t.Logf("\t%s\tShould receive a status code of %d for %s %s.", success, statusCode, method, path)

	if resp != nil {
		if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the response : %s", failed, err)
		}
	}
}

func Test_Transactions(t *testing.T) {
	t.Log("Given the need to submit transactions and mine them.")
	{
		n := newNode(t)

		t.Logf("\tTest 0:\tWhen adding a valid transaction.")
		{
			var resp struct {
				Index uint64 `json:"index"`
			}
			call(t, n.public, http.MethodPost, "/v1/tx/add", `{"sender":"bill","receiver":"pavel","amount":10.5}`, http.StatusCreated, &resp)

			if resp.Index != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould get back the index of the next block : %d", failed, resp.Index)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the index of the next block.", success)
		}

		t.Logf("\tTest 1:\tWhen adding invalid transactions.")
		{
			var resp struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			call(t, n.public, http.MethodPost, "/v1/tx/add", `{"sender":"bill","receiver":"pavel"}`, http.StatusBadRequest, &resp)

			if _, exists := resp.Fields["amount"]; !exists {
				t.Fatalf("\t%s\tTest 1:\tShould report the missing amount field : %v", failed, resp.Fields)
			}
			t.Logf("\t%s\tTest 1:\tShould report the missing amount field.", success)

			call(t, n.public, http.MethodPost, "/v1/tx/add", `{"sender":"bill","receiver":"pavel","amount":1,"tip":1}`, http.StatusBadRequest, nil)
			call(t, n.public, http.MethodPost, "/v1/tx/add", `not json`, http.StatusBadRequest, nil)
		}

		t.Logf("\tTest 2:\tWhen listing the pending transactions.")
		{
			var pending []database.Transaction
			call(t, n.public, http.MethodGet, "/v1/tx/pending", "", http.StatusOK, &pending)

			if len(pending) != 1 || pending[0].Amount != 10.5 {
				t.Fatalf("\t%s\tTest 2:\tShould get back the pending transaction : %v", failed, pending)
			}
			t.Logf("\t%s\tTest 2:\tShould get back the pending transaction.", success)
		}

		t.Logf("\tTest 3:\tWhen mining a block.")
		{
			var block database.Block
			call(t, n.public, http.MethodGet, "/v1/mine", "", http.StatusOK, &block)

			if block.Index != 1 || block.Proof != 533 {
				t.Fatalf("\t%s\tTest 3:\tShould get back the mined block : %+v", failed, block)
			}
			t.Logf("\t%s\tTest 3:\tShould get back the mined block.", success)

			if len(block.Transactions) != 2 || block.Transactions[1].Sender != database.RewardSender {
				t.Fatalf("\t%s\tTest 3:\tShould get back the transaction and the reward : %v", failed, block.Transactions)
			}
			t.Logf("\t%s\tTest 3:\tShould get back the transaction and the reward.", success)
		}

		t.Logf("\tTest 4:\tWhen looking up a block by index.")
		{
			var block database.Block
			call(t, n.public, http.MethodGet, "/v1/block/1", "", http.StatusOK, &block)

			if block.Index != 1 || block.Proof != 533 || block.Hash() != n.state.RetrieveLatestBlock().Hash() {
				t.Fatalf("\t%s\tTest 4:\tShould get back the mined block : %+v", failed, block)
			}
			t.Logf("\t%s\tTest 4:\tShould get back the mined block.", success)

			call(t, n.public, http.MethodGet, "/v1/block/9", "", http.StatusNotFound, nil)
			t.Logf("\t%s\tTest 4:\tShould get a not found for a missing block.", success)

			call(t, n.public, http.MethodGet, "/v1/block/abc", "", http.StatusBadRequest, nil)
			t.Logf("\t%s\tTest 4:\tShould reject an index that is not a number.", success)
		}

		t.Logf("\tTest 5:\tWhen asking for the chain.")
		{
			var chain database.Chain
			call(t, n.public, http.MethodGet, "/v1/chain", "", http.StatusOK, &chain)

			if chain.Length != 2 || len(chain.Blocks) != 2 {
				t.Fatalf("\t%s\tTest 5:\tShould get back a chain of length 2 : %d", failed, chain.Length)
			}
			t.Logf("\t%s\tTest 5:\tShould get back a chain of length 2.", success)

			var valid struct {
				Valid bool `json:"valid"`
			}
			call(t, n.public, http.MethodGet, "/v1/valid", "", http.StatusOK, &valid)

			if !valid.Valid {
				t.Fatalf("\t%s\tTest 5:\tShould report the chain as valid.", failed)
			}
			t.Logf("\t%s\tTest 5:\tShould report the chain as valid.", success)
		}
	}
}

func Test_Reconcile(t *testing.T) {
	t.Log("Given the need to reconcile two nodes over http.")
	{
		remote := newNode(t)
		for i := 0; i < 3; i++ {
			if _, err := remote.state.MineNewBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tShould be able to mine the remote chain : %s", failed, err)
			}
		}

		srv := httptest.NewServer(remote.private)
		defer srv.Close()

		local := newNode(t)

		var connected struct {
			Peers []string `json:"peers"`
		}
		call(t, local.public, http.MethodPost, "/v1/node/connect", `{"nodes":["`+srv.URL+`"]}`, http.StatusCreated, &connected)

		if len(connected.Peers) != 1 || connected.Peers[0] != strings.TrimPrefix(srv.URL, "http://") {
			t.Fatalf("\t%s\tShould store the network location of the node : %v", failed, connected.Peers)
		}
		t.Logf("\t%s\tShould store the network location of the node.", success)

		call(t, local.public, http.MethodPost, "/v1/node/connect", `{"nodes":[]}`, http.StatusBadRequest, nil)

		var resp struct {
			Replaced bool             `json:"replaced"`
			Chain    []database.Block `json:"chain"`
			Length   int              `json:"length"`
		}
		call(t, local.public, http.MethodGet, "/v1/reconcile", "", http.StatusOK, &resp)

		if !resp.Replaced || resp.Length != 4 {
			t.Fatalf("\t%s\tShould replace the local chain with the longer remote chain : %v %d", failed, resp.Replaced, resp.Length)
		}
		t.Logf("\t%s\tShould replace the local chain with the longer remote chain.", success)

		if local.state.RetrieveLatestBlock().Hash() != remote.state.RetrieveLatestBlock().Hash() {
			t.Fatalf("\t%s\tShould hold the same latest block as the remote node.", failed)
		}
		t.Logf("\t%s\tShould hold the same latest block as the remote node.", success)

		call(t, local.public, http.MethodGet, "/v1/reconcile", "", http.StatusOK, &resp)
		if resp.Replaced {
			t.Fatalf("\t%s\tShould not replace a chain of equal length.", failed)
		}
		t.Logf("\t%s\tShould not replace a chain of equal length.", success)
	}
}

func Test_Status(t *testing.T) {
	t.Log("Given the need to report the status of a node.")
	{
		n := newNode(t)

		var status struct {
			LatestBlockHash  string `json:"latest_block_hash"`
			LatestBlockIndex uint64 `json:"latest_block_index"`
			Length           int    `json:"length"`
		}
		call(t, n.private, http.MethodGet, "/v1/node/status", "", http.StatusOK, &status)

		if status.LatestBlockHash != n.state.RetrieveLatestBlock().Hash() || status.Length != 1 {
			t.Fatalf("\t%s\tShould report genesis as the latest block : %+v", failed, status)
		}
		t.Logf("\t%s\tShould report genesis as the latest block.", success)

		call(t, n.private, http.MethodGet, "/v1/mine", "", http.StatusNotFound, nil)
	}
}
