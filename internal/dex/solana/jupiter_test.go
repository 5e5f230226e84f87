package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"memescout-go/internal/execution"
)

func TestNewJupiterClientCommit(t *testing.T) {
	wallet := solana.NewWallet()
	client := NewJupiterClient("https://rpc", "https://jup", wallet.PrivateKey, "finalized", Tunables{})
	if client.Commit != rpc.CommitmentFinalized {
		t.Fatalf("expected finalized commitment, got %v", client.Commit)
	}
	if client.Tunables.ConfirmPoll != defaultConfirmPoll {
		t.Fatalf("expected poll default applied, got %v", client.Tunables.ConfirmPoll)
	}
}

func TestGetQuote(t *testing.T) {
	wallet := solana.NewWallet()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/quote" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("inputMint") != WrappedSOL {
			t.Fatalf("expected wrapped SOL input, got %s", r.URL.Query().Get("inputMint"))
		}
		if r.URL.Query().Get("slippageBps") != "150" {
			t.Fatalf("expected slippage forwarded, got %s", r.URL.Query().Get("slippageBps"))
		}
		resp := Quote{InputMint: WrappedSOL, OutputMint: "BBB", InAmount: "10", OutAmount: "20", SlippageBps: 150}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewJupiterClient("https://rpc", server.URL, wallet.PrivateKey, "processed", Tunables{SlippageBps: 150})
	client.Http = server.Client()

	quote, err := client.GetQuote(context.Background(), WrappedSOL, "BBB", 10, 150)
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if quote.OutAmount != "20" {
		t.Fatalf("expected OutAmount 20, got %s", quote.OutAmount)
	}
}

func TestSubmitSwapQuoteFailure(t *testing.T) {
	wallet := solana.NewWallet()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewJupiterClient("https://rpc", server.URL, wallet.PrivateKey, "processed", Tunables{SlippageBps: 50})
	client.Http = server.Client()

	if _, err := client.SubmitSwap(context.Background(), "BBB", 10); err == nil {
		t.Fatalf("expected error when quote endpoint fails")
	}
}

func TestAwaitConfirmationBadSignature(t *testing.T) {
	wallet := solana.NewWallet()
	client := NewJupiterClient("https://rpc", "https://jup", wallet.PrivateKey, "processed", Tunables{})
	if _, err := client.AwaitConfirmation(context.Background(), "not-base58!!", time.Second); err == nil {
		t.Fatalf("expected error for malformed signature")
	}
}

func TestAwaitConfirmationStates(t *testing.T) {
	cases := []struct {
		name   string
		status string
		txErr  string
		want   execution.TerminalState
	}{
		{name: "confirmed", status: "confirmed", want: execution.StateConfirmed},
		{name: "finalized", status: "finalized", want: execution.StateConfirmed},
		{name: "reverted", status: "confirmed", txErr: `{"InstructionError":[0,"Custom"]}`, want: execution.StateReverted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				errField := "null"
				if tc.txErr != "" {
					errField = tc.txErr
				}
				body := `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":[{"slot":1,"confirmations":null,"err":` + errField + `,"confirmationStatus":"` + tc.status + `"}]}}`
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			wallet := solana.NewWallet()
			client := NewJupiterClient(server.URL, "https://jup", wallet.PrivateKey, "processed", Tunables{ConfirmPoll: 10 * time.Millisecond})

			sig := solana.SignatureFromBytes(make([]byte, 64))
			state, err := client.AwaitConfirmation(context.Background(), sig.String(), time.Second)
			if err != nil {
				t.Fatalf("AwaitConfirmation returned error: %v", err)
			}
			if state != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, state)
			}
		})
	}
}

func TestAwaitConfirmationTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":[null]}}`
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	wallet := solana.NewWallet()
	client := NewJupiterClient(server.URL, "https://jup", wallet.PrivateKey, "processed", Tunables{ConfirmPoll: 10 * time.Millisecond})

	sig := solana.SignatureFromBytes(make([]byte, 64))
	_, err := client.AwaitConfirmation(context.Background(), sig.String(), 50*time.Millisecond)
	if err != execution.ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
