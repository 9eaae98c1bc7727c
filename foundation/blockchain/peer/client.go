package peer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/mycoin/foundation/blockchain/database"
)

// BaseURL is the private node API every peer exposes.
const BaseURL = "http://%s/v1/node"

// maxPayload is the largest response body a peer is allowed to send.
const maxPayload = 64 << 20

// Client provides access to the private node API of peers.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient constructs a client for talking to peers. A nil http client
// uses http.DefaultClient.
func NewClient(client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		http:    client,
		baseURL: BaseURL,
	}
}

// FetchChain asks the peer for its copy of the blockchain. The payload is
// decoded strictly: unknown, missing or mistyped fields fail the fetch.
func (c *Client) FetchChain(ctx context.Context, pr Peer) ([]database.Block, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(c.baseURL, pr.Host))

	var cd database.ChainData
	if err := c.send(ctx, http.MethodGet, url, nil, &cd); err != nil {
		return nil, err
	}

	return database.ToChain(cd)
}

// QueryStatus asks the peer for its current status.
func (c *Client) QueryStatus(ctx context.Context, pr Peer) (PeerStatus, error) {
	url := fmt.Sprintf("%s/status", fmt.Sprintf(c.baseURL, pr.Host))

	var ps PeerStatus
	if err := c.send(ctx, http.MethodGet, url, nil, &ps); err != nil {
		return PeerStatus{}, err
	}

	return ps, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if err != nil {
			return err
		}
		return fmt.Errorf("peer responded with status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		decoder := json.NewDecoder(io.LimitReader(resp.Body, maxPayload))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(dataRecv); err != nil {
			return fmt.Errorf("unable to decode payload: %w", err)
		}

		if decoder.More() {
			return errors.New("unable to decode payload: trailing data")
		}
	}

	return nil
}
