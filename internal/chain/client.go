// Package chain wraps the external chain submitter. The engine treats it as
// an opaque collaborator: it builds unsigned transfers, reads back submitted
// payments and asks the signer sidecar to mint and deliver the pass. Every
// call carries a hard timeout so no engine operation can hang on RPC.
package chain

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found on chain")
	ErrSubmitterTimeout    = errors.New("chain submitter timed out")
)

// Transfer is the verified view of an on-chain payment.
type Transfer struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Lamports    uint64 `json:"lamports"`
	Slot        uint64 `json:"slot"`
}

// MintResult is what the submitter reports after a successful mint+transfer.
type MintResult struct {
	MintAddress       string `json:"mintAddress"`
	CreateSignature   string `json:"createSignature"`
	TransferSignature string `json:"transferSignature"`
}

type Client struct {
	rpcEndpoint       string
	submitterEndpoint string
	timeout           time.Duration
	httpClient        *http.Client
}

func NewClient(rpcEndpoint, submitterEndpoint string, timeout time.Duration) *Client {
	return &Client{
		rpcEndpoint:       rpcEndpoint,
		submitterEndpoint: submitterEndpoint,
		timeout:           timeout,
		httpClient:        &http.Client{Timeout: timeout},
	}
}

// BuildTransferTransaction returns a base64-encoded unsigned payment
// instruction for the client wallet to sign and submit.
func (c *Client) BuildTransferTransaction(ctx context.Context, from, to string, lamports uint64) (string, error) {
	instruction := struct {
		Program  string `json:"program"`
		From     string `json:"from"`
		To       string `json:"to"`
		Lamports uint64 `json:"lamports"`
	}{
		Program:  "system",
		From:     from,
		To:       to,
		Lamports: lamports,
	}

	raw, err := json.Marshal(instruction)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GetTransfer looks a payment signature up on chain and reduces it to the
// single transfer the engine cares about.
func (c *Client) GetTransfer(ctx context.Context, signature string) (Transfer, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getTransaction",
		Params: []interface{}{
			signature,
			map[string]interface{}{"encoding": "jsonParsed", "commitment": "confirmed"},
		},
	}

	var result struct {
		Slot        uint64 `json:"slot"`
		Transaction struct {
			Message struct {
				Instructions []struct {
					Parsed struct {
						Type string `json:"type"`
						Info struct {
							Source      string `json:"source"`
							Destination string `json:"destination"`
							Lamports    uint64 `json:"lamports"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"instructions"`
			} `json:"message"`
		} `json:"transaction"`
		Meta struct {
			Err interface{} `json:"err"`
		} `json:"meta"`
	}

	if err := c.call(ctx, c.rpcEndpoint, reqBody, &result); err != nil {
		return Transfer{}, err
	}

	if result.Meta.Err != nil {
		return Transfer{}, ErrTransactionNotFound
	}

	for _, inst := range result.Transaction.Message.Instructions {
		if inst.Parsed.Type == "transfer" {
			return Transfer{
				Source:      inst.Parsed.Info.Source,
				Destination: inst.Parsed.Info.Destination,
				Lamports:    inst.Parsed.Info.Lamports,
				Slot:        result.Slot,
			}, nil
		}
	}

	return Transfer{}, ErrTransactionNotFound
}

// MintAndTransfer asks the signer sidecar to mint the pass and deliver it to
// the recipient wallet.
func (c *Client) MintAndTransfer(ctx context.Context, recipient string) (MintResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]string{"recipient": recipient})
	if err != nil {
		return MintResult{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.submitterEndpoint+"/mint", bytes.NewReader(payload))
	if err != nil {
		return MintResult{}, fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return MintResult{}, ErrSubmitterTimeout
		}
		return MintResult{}, fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MintResult{}, fmt.Errorf("submitter returned status %v", resp.StatusCode)
	}

	var result MintResult
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return MintResult{}, fmt.Errorf("json.Decode -> %w", err)
	}

	return result, nil
}

func (c *Client) call(ctx context.Context, endpoint string, reqBody rpcRequest, out interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return ErrSubmitterTimeout
		}
		return fmt.Errorf("c.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc endpoint returned status %v", resp.StatusCode)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("json.Decode -> %w", err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc error %v: %v", envelope.Error.Code, envelope.Error.Message)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return ErrTransactionNotFound
	}

	if err = json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return nil
}
