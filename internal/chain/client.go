// internal/chain/client.go
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/phygital-labs/veritas-backend/internal/config"
)

// CertificateState is the single normalized shape of the contract's
// verifyCertificate result. All callers see this struct; the ABI decode in
// VerifyCertificate is the only place raw call results are touched.
type CertificateState struct {
	IsValid      bool
	TokenID      *big.Int
	CurrentOwner common.Address
}

type MintResult struct {
	TokenID *big.Int
	TxHash  common.Hash
}

// Client is the process-wide adapter to the blockchain node. It is
// constructed once at startup and reused across requests; the RPC
// connection is the only cached state, nonce and gas price are fetched
// fresh for every transaction.
type Client struct {
	eth        *ethclient.Client
	contract   common.Address
	chainID    *big.Int
	key        *ecdsa.PrivateKey
	serverAddr common.Address
	network    string

	gasLimitMint     uint64
	gasLimitTransfer uint64

	// Serializes signed submissions for the server key. Two concurrent
	// sends sharing a stale nonce would make one of them revert.
	mu sync.Mutex
}

func New(cfg config.BlockchainConfig) (*Client, error) {
	rawKey := strings.TrimPrefix(cfg.PrivateKey, "0x")
	key, err := crypto.HexToECDSA(rawKey)
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %w", err)
	}

	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	return &Client{
		eth:              eth,
		contract:         common.HexToAddress(cfg.ContractAddress),
		chainID:          big.NewInt(cfg.ChainID),
		key:              key,
		serverAddr:       crypto.PubkeyToAddress(key.PublicKey),
		network:          cfg.Network,
		gasLimitMint:     cfg.GasLimitMint,
		gasLimitTransfer: cfg.GasLimitTransfer,
	}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) ServerAddress() common.Address   { return c.serverAddr }
func (c *Client) ContractAddress() common.Address { return c.contract }
func (c *Client) Network() string                 { return c.network }

// MintCertificate submits the mint transaction for productHash, assigning
// the new token to owner, and blocks until it is mined. On success the
// decoded token id and transaction hash are returned.
func (c *Client) MintCertificate(ctx context.Context, owner common.Address, productHash common.Hash) (*MintResult, error) {
	data, err := contractABI.Pack("mintCertificate", owner, productHash)
	if err != nil {
		return nil, &SubmissionError{Op: "encode mintCertificate", Err: err}
	}

	receipt, err := c.submit(ctx, data, c.gasLimitMint)
	if err != nil {
		return nil, err
	}

	tokenID, err := DecodeMintEvent(receipt)
	if err != nil {
		return nil, err
	}

	return &MintResult{TokenID: tokenID, TxHash: receipt.TxHash}, nil
}

// TransferOwnership moves the token's on-chain owner from one wallet to
// another and blocks until the transaction is mined.
func (c *Client) TransferOwnership(ctx context.Context, tokenID *big.Int, from, to common.Address) (common.Hash, error) {
	data, err := contractABI.Pack("transferOwnership", tokenID, from, to)
	if err != nil {
		return common.Hash{}, &SubmissionError{Op: "encode transferOwnership", Err: err}
	}

	receipt, err := c.submit(ctx, data, c.gasLimitTransfer)
	if err != nil {
		return common.Hash{}, err
	}

	return receipt.TxHash, nil
}

// VerifyCertificate is the read path: no gas, no signing, no nonce.
func (c *Client) VerifyCertificate(ctx context.Context, productHash common.Hash) (*CertificateState, error) {
	data, err := contractABI.Pack("verifyCertificate", productHash)
	if err != nil {
		return nil, &UnavailableError{Op: "encode verifyCertificate", Err: err}
	}

	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, &UnavailableError{Op: "verifyCertificate", Err: err}
	}

	out, err := contractABI.Unpack("verifyCertificate", res)
	if err != nil {
		return nil, &UnavailableError{Op: "decode verifyCertificate", Err: err}
	}

	state := &CertificateState{}
	var ok bool
	if state.IsValid, ok = out[0].(bool); !ok {
		return nil, &UnavailableError{Op: "decode verifyCertificate", Err: fmt.Errorf("unexpected isValid type %T", out[0])}
	}
	if state.TokenID, ok = out[1].(*big.Int); !ok {
		return nil, &UnavailableError{Op: "decode verifyCertificate", Err: fmt.Errorf("unexpected tokenId type %T", out[1])}
	}
	if state.CurrentOwner, ok = out[2].(common.Address); !ok {
		return nil, &UnavailableError{Op: "decode verifyCertificate", Err: fmt.Errorf("unexpected currentOwner type %T", out[2])}
	}

	return state, nil
}

// ContractOwner reads the contract's owner() for startup and health checks.
func (c *Client) ContractOwner(ctx context.Context) (common.Address, error) {
	data, err := contractABI.Pack("owner")
	if err != nil {
		return common.Address{}, &UnavailableError{Op: "encode owner", Err: err}
	}

	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return common.Address{}, &UnavailableError{Op: "owner", Err: err}
	}

	out, err := contractABI.Unpack("owner", res)
	if err != nil {
		return common.Address{}, &UnavailableError{Op: "decode owner", Err: err}
	}

	owner, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, &UnavailableError{Op: "decode owner", Err: fmt.Errorf("unexpected owner type %T", out[0])}
	}
	return owner, nil
}

// submit signs and broadcasts a transaction against the contract, then
// waits for it to be mined and checks the receipt status.
func (c *Client) submit(ctx context.Context, data []byte, gasLimit uint64) (*types.Receipt, error) {
	signed, err := c.signAndSend(ctx, data, gasLimit)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"tx_hash": signed.Hash().Hex(),
		"nonce":   signed.Nonce(),
	}).Info("Transaction broadcast, waiting to be mined")

	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		// Broadcast succeeded; the transaction may still land on-chain.
		return nil, &ReceiptTimeoutError{TxHash: signed.Hash().Hex(), Err: err}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &RevertError{
			TxHash: receipt.TxHash.Hex(),
			Reason: c.revertReason(ctx, signed, receipt),
		}
	}

	return receipt, nil
}

// signAndSend holds the submission lock from nonce fetch through broadcast
// so transactions from the server key always go out with increasing nonces.
func (c *Client) signAndSend(ctx context.Context, data []byte, gasLimit uint64) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce, err := c.eth.PendingNonceAt(ctx, c.serverAddr)
	if err != nil {
		return nil, &SubmissionError{Op: "fetch nonce", Err: err}
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, &SubmissionError{Op: "fetch gas price", Err: err}
	}

	tx := types.NewTransaction(nonce, c.contract, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, &SubmissionError{Op: "sign transaction", Err: err}
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, &SubmissionError{Op: "broadcast transaction", Err: err}
	}

	return signed, nil
}

// revertReason replays the failed call at the block it was mined in to
// recover the revert string, if the node exposes one.
func (c *Client) revertReason(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) string {
	msg := ethereum.CallMsg{
		From:     c.serverAddr,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}

	_, err := c.eth.CallContract(ctx, msg, receipt.BlockNumber)
	if err == nil {
		return ""
	}

	reason := err.Error()
	if idx := strings.Index(reason, "execution reverted"); idx >= 0 {
		reason = strings.TrimPrefix(reason[idx:], "execution reverted")
		return strings.TrimSpace(strings.TrimPrefix(reason, ":"))
	}
	return ""
}
