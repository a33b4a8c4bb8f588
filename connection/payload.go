package connection

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// parseAccounts validates an accountsChanged payload or an account list
// returned by the provider. A nil []string is an empty list.
func parseAccounts(payload any) ([]string, error) {
	var raw []string
	switch v := payload.(type) {
	case []string:
		raw = v
	case []common.Address:
		for _, a := range v {
			raw = append(raw, a.Hex())
		}
	case []any:
		for _, x := range v {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("%w: account entry of type %T", ErrMalformedEvent, x)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("%w: account list of type %T", ErrMalformedEvent, payload)
	}

	accounts := make([]string, 0, len(raw))
	for _, a := range raw {
		if !strings.HasPrefix(a, "0x") || !common.IsHexAddress(a) {
			return nil, fmt.Errorf("%w: invalid address %q", ErrMalformedEvent, a)
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// parseChain validates a chain id and returns it in minimal lower-case hex.
// Any width is accepted; leading zeros are dropped.
func parseChain(payload any) (string, error) {
	switch v := payload.(type) {
	case string:
		digits, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(v)), "0x")
		if !ok || digits == "" || strings.Trim(digits, "0123456789abcdef") != "" {
			return "", fmt.Errorf("%w: chain id %q", ErrMalformedEvent, v)
		}
		n, _ := new(big.Int).SetString(digits, 16)
		return hexutil.EncodeBig(n), nil
	case *big.Int:
		if v == nil || v.Sign() < 0 {
			return "", fmt.Errorf("%w: chain id %v", ErrMalformedEvent, v)
		}
		return hexutil.EncodeBig(v), nil
	case hexutil.Uint64:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: chain id of type %T", ErrMalformedEvent, payload)
	}
}
