// Package solana implements the chain collaborator on top of Jupiter swap
// routing and Solana RPC.
package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"memescout-go/internal/execution"
)

// WrappedSOL is the input mint every purchase swaps out of.
const WrappedSOL = "So11111111111111111111111111111111111111112"

const defaultConfirmPoll = 2 * time.Second

// Tunables groups the fee and slippage knobs the executor treats as
// configuration rather than hardcoded values.
type Tunables struct {
	SlippageBps         int
	PriorityFeeLamports uint64
	ComputeUnitLimit    uint32
	ConfirmPoll         time.Duration
}

// JupiterClient asks Jupiter for a route, signs locally, submits via RPC,
// and polls signature status until the transaction is terminal.
type JupiterClient struct {
	Base     string
	RPC      *rpc.Client
	Owner    solana.PrivateKey
	Commit   rpc.CommitmentType
	Http     *http.Client
	Tunables Tunables
}

// Quote is Jupiter's route answer for one input/output pair.
type Quote struct {
	InputMint      string  `json:"inputMint"`
	OutputMint     string  `json:"outputMint"`
	InAmount       string  `json:"inAmount"`
	OutAmount      string  `json:"outAmount"`
	OtherAmount    string  `json:"otherAmountThreshold"`
	SlippageBps    int     `json:"slippageBps"`
	RoutePlan      any     `json:"routePlan"`
	PriceImpactPct float64 `json:"priceImpactPct"`
}

// NewJupiterClient constructs the swap client for one signing key.
func NewJupiterClient(rpcURL, base string, owner solana.PrivateKey, commit string, tunables Tunables) *JupiterClient {
	c := rpc.CommitmentConfirmed
	switch commit {
	case "processed":
		c = rpc.CommitmentProcessed
	case "finalized":
		c = rpc.CommitmentFinalized
	}
	if tunables.ConfirmPoll <= 0 {
		tunables.ConfirmPoll = defaultConfirmPoll
	}
	return &JupiterClient{
		Base:     strings.TrimSuffix(base, "/"),
		RPC:      rpc.New(rpcURL),
		Owner:    owner,
		Commit:   c,
		Http:     &http.Client{Timeout: 8 * time.Second},
		Tunables: tunables,
	}
}

// Compile-time interface check.
var _ execution.Chain = (*JupiterClient)(nil)

// GetQuote fetches a route. amount is in lamports of the input mint.
func (j *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*Quote, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", fmt.Sprintf("%d", amount))
	q.Set("slippageBps", fmt.Sprintf("%d", slippageBps))
	q.Set("onlyDirectRoutes", "false")
	u := j.Base + "/v6/quote?" + q.Encode()

	req, _ := http.NewRequestWithContext(ctx, "GET", u, nil)
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("jupiter quote status %d", resp.StatusCode)
	}
	var out Quote
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// buildAndSendSwap asks Jupiter for a ready-to-sign transaction, signs it
// locally, then submits via RPC.
func (j *JupiterClient) buildAndSendSwap(ctx context.Context, quote *Quote) (sig solana.Signature, err error) {
	payload := map[string]any{
		"userPublicKey":             j.Owner.PublicKey().String(),
		"wrapAndUnwrapSol":          true,
		"asLegacyTransaction":       false,
		"useTokenLedger":            false,
		"prioritizationFeeLamports": j.Tunables.PriorityFeeLamports,
		"quoteResponse":             quote,
	}
	if j.Tunables.ComputeUnitLimit > 0 {
		payload["computeUnitLimit"] = j.Tunables.ComputeUnitLimit
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequestWithContext(ctx, "POST", j.Base+"/v6/swap", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := j.Http.Do(req)
	if err != nil {
		return sig, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return sig, fmt.Errorf("jupiter swap status %d", resp.StatusCode)
	}
	var sr struct {
		SwapTransaction string `json:"swapTransaction"` // base64-encoded tx (unsigned)
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return sig, err
	}

	raw, err := base64.StdEncoding.DecodeString(sr.SwapTransaction)
	if err != nil {
		return sig, fmt.Errorf("decode tx: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return sig, fmt.Errorf("unmarshal tx: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(j.Owner.PublicKey()) {
			return &j.Owner
		}
		return nil
	})
	if err != nil {
		return sig, fmt.Errorf("sign: %w", err)
	}

	sig, err = j.RPC.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: j.Commit,
	})
	return sig, err
}

// SubmitSwap performs exactly one quote-build-sign-submit cycle moving
// amountLamports of wrapped SOL into the output mint. Callers own the
// serialization of concurrent submissions sharing this signing key.
func (j *JupiterClient) SubmitSwap(ctx context.Context, outputMint string, amountLamports uint64) (string, error) {
	quote, err := j.GetQuote(ctx, WrappedSOL, outputMint, amountLamports, j.Tunables.SlippageBps)
	if err != nil {
		return "", fmt.Errorf("quote: %w", err)
	}
	sig, err := j.buildAndSendSwap(ctx, quote)
	if err != nil {
		if isInsufficientFunds(err) {
			return "", execution.ErrInsufficientFunds
		}
		return "", err
	}
	return sig.String(), nil
}

// AwaitConfirmation polls signature status until the transaction reaches a
// terminal chain state or the timeout elapses. A context deadline surfaces
// as context.DeadlineExceeded so the executor can flag the ambiguous
// outcome.
func (j *JupiterClient) AwaitConfirmation(ctx context.Context, txID string, timeout time.Duration) (execution.TerminalState, error) {
	sig, err := solana.SignatureFromBase58(txID)
	if err != nil {
		return "", fmt.Errorf("parse signature: %w", err)
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(j.Tunables.ConfirmPoll)
	defer ticker.Stop()

	for {
		statuses, err := j.RPC.GetSignatureStatuses(ctx, true, sig)
		if err == nil && statuses != nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return execution.StateReverted, nil
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return execution.StateConfirmed, nil
			}
		}
		if time.Now().After(deadline) {
			return "", execution.ErrTimeout
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func isInsufficientFunds(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "insufficient lamports")
}
