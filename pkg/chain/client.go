package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Dial connects to an Ethereum JSON-RPC endpoint and logs the chain it reports
func Dial(ctx context.Context, rpcURL string, logger *zap.Logger) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, &CallError{Op: "dial", Err: err}
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, &CallError{Op: "chainId", Err: fmt.Errorf("failed to get chain ID: %w", err)}
	}

	logger.Info("connected to chain",
		zap.String("chain_id", chainID.String()),
	)
	return client, nil
}
