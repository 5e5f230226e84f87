package solana

import (
	"errors"
	"os"

	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

// LoadPrivateKey resolves the signing key: the SOLANA_PRIVATE_KEY_BASE58
// environment variable (with a best-effort .env load first) wins over the
// config-supplied key. A missing key is the unrecoverable configuration
// error that stops a run before any candidate is processed.
func LoadPrivateKey(configKeyBase58 string) (solana.PrivateKey, error) {
	_ = godotenv.Load() // best-effort
	b58 := os.Getenv("SOLANA_PRIVATE_KEY_BASE58")
	if b58 == "" {
		b58 = configKeyBase58
	}
	if b58 == "" {
		return nil, errors.New("no signing key: set SOLANA_PRIVATE_KEY_BASE58 or wallet.private_key_base58")
	}
	return solana.PrivateKeyFromBase58(b58)
}
