// internal/chain/contract.go
package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
)

// ABI of the certificate contract surface this backend consumes. The
// contract itself is deployed separately; only these four entry points and
// the mint event are used.
const contractABIJSON = `[
  {
    "type": "function",
    "name": "mintCertificate",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "owner", "type": "address"},
      {"name": "productHash", "type": "bytes32"}
    ],
    "outputs": []
  },
  {
    "type": "function",
    "name": "transferOwnership",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "tokenId", "type": "uint256"},
      {"name": "from", "type": "address"},
      {"name": "to", "type": "address"}
    ],
    "outputs": []
  },
  {
    "type": "function",
    "name": "verifyCertificate",
    "stateMutability": "view",
    "inputs": [
      {"name": "productHash", "type": "bytes32"}
    ],
    "outputs": [
      {"name": "isValid", "type": "bool"},
      {"name": "tokenId", "type": "uint256"},
      {"name": "currentOwner", "type": "address"}
    ]
  },
  {
    "type": "function",
    "name": "owner",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [
      {"name": "", "type": "address"}
    ]
  },
  {
    "type": "event",
    "name": "CertificateMinted",
    "anonymous": false,
    "inputs": [
      {"name": "tokenId", "type": "uint256", "indexed": true},
      {"name": "productHash", "type": "bytes32", "indexed": false},
      {"name": "brand", "type": "address", "indexed": true}
    ]
  }
]`

const mintEventName = "CertificateMinted"

func mustParseABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(contractABIJSON))
	if err != nil {
		panic("chain: invalid embedded contract ABI: " + err.Error())
	}
	return parsed
}

var contractABI = mustParseABI()

// DecodeMintEvent locates the contract's mint event in a mined receipt and
// returns the token id it carries. A successful transaction without the
// event means the deployed contract does not match the embedded ABI; that
// is fatal for the caller, not retryable.
func DecodeMintEvent(receipt *types.Receipt) (*big.Int, error) {
	eventID := contractABI.Events[mintEventName].ID

	for _, log := range receipt.Logs {
		if len(log.Topics) == 0 || log.Topics[0] != eventID {
			continue
		}
		// tokenId is the first indexed argument.
		if len(log.Topics) < 2 {
			continue
		}
		return new(big.Int).SetBytes(log.Topics[1].Bytes()), nil
	}

	return nil, &EventNotFoundError{TxHash: receipt.TxHash.Hex(), Event: mintEventName}
}
