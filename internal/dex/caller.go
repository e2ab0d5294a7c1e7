package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrRPC marks transport or node failures of a contract call.
	ErrRPC = errors.New("rpc failure")
	// ErrDecode marks malformed or unexpected contract responses.
	ErrDecode = errors.New("decode failure")
)

// Caller performs read-only contract calls. *chain.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

func callMethod(ctx context.Context, caller Caller, to common.Address, parsed abi.ABI, method string, block *big.Int) ([]interface{}, error) {
	if caller == nil {
		return nil, fmt.Errorf("call %s: %w: caller is nil", method, ErrRPC)
	}
	data, err := parsed.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w: %w", method, ErrDecode, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := caller.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w: %w", method, ErrRPC, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w: %w", method, ErrDecode, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: %w: empty result", method, ErrDecode)
	}
	return values, nil
}
