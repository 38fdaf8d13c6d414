package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "permissionctl",
		Usage: "Sign, inspect and submit PermissionMw register authorizations",
		Description: `Offline tooling for the PermissionMw register flow.

sign and typed-data work without a node. nonce and register need --rpc-url.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "namehash",
				Usage:     "Print the ENS namehash of a name",
				ArgsUsage: "<name>",
				Action:    namehashCommand,
			},
			{
				Name:   "typed-data",
				Usage:  "Print the eth_signTypedData_v4 payload and digest of a register message",
				Flags:  append(domainFlags(), messageFlags()...),
				Action: typedDataCommand,
			},
			{
				Name:   "sign",
				Usage:  "Sign a register message and print the encoded authorization",
				Flags:  append(append(domainFlags(), messageFlags()...), keyFlags()...),
				Action: signCommand,
			},
			{
				Name:  "verify",
				Usage: "Decode an authorization and recover its signer",
				Flags: append(append(domainFlags(), messageFlags()...),
					&cli.StringFlag{
						Name:     "authorization",
						Usage:    "Encoded 128-byte authorization (hex)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "signer",
						Usage: "Expected signer address",
					},
				),
				Action: verifyCommand,
			},
			{
				Name:  "nonce",
				Usage: "Read a recipient's nonce from PermissionMw",
				Flags: []cli.Flag{
					rpcFlag(true),
					&cli.StringFlag{
						Name:     "contract",
						Usage:    "PermissionMw address",
						EnvVars:  []string{"PERMISSION_MW_ADDRESS", "EIP712_VERIFYING_CONTRACT"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Recipient address",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "RPC timeout",
						Value: 10 * time.Second,
					},
				},
				Action: nonceCommand,
			},
			{
				Name:  "register",
				Usage: "Send register(...) with an encoded authorization and wait for the receipt",
				Flags: []cli.Flag{
					rpcFlag(true),
					&cli.StringFlag{
						Name:     "registrar",
						Usage:    "Registrar contract address",
						EnvVars:  []string{"REGISTRAR_ADDRESS"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "submitter-key",
						Usage:    "Private key paying for the transaction (hex)",
						EnvVars:  []string{"SUBMITTER_PRIVATE_KEY"},
						Required: true,
					},
					&cli.Uint64Flag{
						Name:    "chain-id",
						Usage:   "Chain ID",
						EnvVars: []string{"EIP712_CHAIN_ID"},
						Value:   80001,
					},
					&cli.StringFlag{
						Name:    "variant",
						Usage:   "Schema variant (base or hierarchical)",
						EnvVars: []string{"SCHEMA_VARIANT"},
						Value:   "base",
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Name to register",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Recipient address",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "parent-node",
						Usage: "Parent node (hex, hierarchical only)",
					},
					&cli.StringFlag{
						Name:     "authorization",
						Usage:    "Encoded authorization (hex)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "extra-data",
						Usage: "Extra data (hex)",
						Value: "0x",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Time to wait for the receipt",
						Value: 2 * time.Minute,
					},
				},
				Action: registerCommand,
			},
		},
	}
}

func rpcFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "rpc-url",
		Usage:    "Ethereum JSON-RPC URL",
		EnvVars:  []string{"CHAIN_RPC_URL"},
		Required: required,
	}
}

func domainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "contract",
			Usage:    "Verifying contract (PermissionMw) address",
			EnvVars:  []string{"EIP712_VERIFYING_CONTRACT"},
			Required: true,
		},
		&cli.Uint64Flag{
			Name:    "chain-id",
			Usage:   "Chain ID",
			EnvVars: []string{"EIP712_CHAIN_ID"},
			Value:   80001,
		},
		&cli.StringFlag{
			Name:    "domain-name",
			Usage:   "EIP-712 domain name",
			EnvVars: []string{"EIP712_DOMAIN_NAME"},
			Value:   "PermissionMw",
		},
		&cli.StringFlag{
			Name:    "domain-version",
			Usage:   "EIP-712 domain version",
			EnvVars: []string{"EIP712_DOMAIN_VERSION"},
			Value:   "1",
		},
		&cli.StringFlag{
			Name:    "variant",
			Usage:   "Schema variant (base or hierarchical)",
			EnvVars: []string{"SCHEMA_VARIANT"},
			Value:   "base",
		},
		&cli.StringFlag{
			Name:    "parent-node",
			Usage:   "Parent node (hex). Defaults to the namehash of --parent-name",
			EnvVars: []string{"MOCA_NODE"},
		},
		&cli.StringFlag{
			Name:    "parent-name",
			Usage:   "Parent name hashed when --parent-node is not set",
			EnvVars: []string{"MOCA_NODE_NAME"},
			Value:   "moca",
		},
	}
}

func messageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Usage:    "Name to register",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "Recipient address",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "nonce",
			Usage: "Nonce (decimal). Read from --rpc-url when omitted",
		},
		&cli.StringFlag{
			Name:  "deadline",
			Usage: "Deadline (unix seconds, decimal)",
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "Deadline from now when --deadline is omitted",
			Value: 15 * time.Minute,
		},
		rpcFlag(false),
	}
}

func keyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "key",
			Usage:   "Signer private key (hex)",
			EnvVars: []string{"SIGNER_PRIVATE_KEY"},
		},
		&cli.StringFlag{
			Name:  "keystore",
			Usage: "Path to a V3 keystore file",
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "Keystore password",
			EnvVars: []string{"KEYSTORE_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "v-convention",
			Usage:   "offset27 or raw",
			EnvVars: []string{"V_CONVENTION"},
			Value:   "offset27",
		},
	}
}
