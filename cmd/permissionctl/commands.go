package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ahwlsqja/permission-mw-signer/pkg/authorizer"
	"github.com/ahwlsqja/permission-mw-signer/pkg/authpayload"
	"github.com/ahwlsqja/permission-mw-signer/pkg/chain"
	"github.com/ahwlsqja/permission-mw-signer/pkg/eip712"
	"github.com/ahwlsqja/permission-mw-signer/pkg/sigcodec"
	"github.com/ahwlsqja/permission-mw-signer/pkg/signer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

type signOutput struct {
	Signer        string `json:"signer"`
	Name          string `json:"name"`
	Recipient     string `json:"recipient"`
	ParentNode    string `json:"parent_node,omitempty"`
	Nonce         string `json:"nonce"`
	Deadline      string `json:"deadline"`
	Digest        string `json:"digest"`
	V             uint8  `json:"v"`
	R             string `json:"r"`
	S             string `json:"s"`
	Signature     string `json:"signature"`
	Authorization string `json:"authorization"`
}

type verifyOutput struct {
	Recovered string `json:"recovered"`
	Digest    string `json:"digest"`
	Deadline  string `json:"deadline"`
	Expired   bool   `json:"expired"`
	Matches   *bool  `json:"matches,omitempty"`
}

func newLogger(c *cli.Context) *zap.Logger {
	if c.Bool("verbose") {
		if l, err := zap.NewDevelopment(); err == nil {
			return l
		}
	}
	return zap.NewNop()
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseAddress(flag, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("--%s: invalid address %q", flag, s)
	}
	return common.HexToAddress(s), nil
}

func parseHash(flag, s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("--%s: expected 32 bytes of 0x-prefixed hex", flag)
	}
	return common.BytesToHash(b), nil
}

func parseDecimal(flag, s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return v, nil
}

// domainFromFlags builds the domain and schema shared by every signing command
func domainFromFlags(c *cli.Context) (*eip712.Domain, *eip712.Schema, eip712.Variant, error) {
	contract, err := parseAddress("contract", c.String("contract"))
	if err != nil {
		return nil, nil, "", err
	}
	domain, err := eip712.NewDomain(c.String("domain-name"), c.String("domain-version"), uint256.NewInt(c.Uint64("chain-id")), contract)
	if err != nil {
		return nil, nil, "", err
	}
	variant := eip712.Variant(c.String("variant"))
	schema, err := eip712.DefaultRegistry().Lookup(variant)
	if err != nil {
		return nil, nil, "", err
	}
	return domain, schema, variant, nil
}

// requestFromFlags reads the message fields. The parent node is only set for
// schemas that take one; nonce falls back to the chain, deadline to now+ttl.
func requestFromFlags(c *cli.Context, schema *eip712.Schema, now time.Time) (authorizer.Request, error) {
	to, err := parseAddress("to", c.String("to"))
	if err != nil {
		return authorizer.Request{}, err
	}
	req := authorizer.Request{
		Name:      c.String("name"),
		Recipient: to,
	}

	if schema.Has(eip712.FieldParentNode) {
		var parent common.Hash
		if s := c.String("parent-node"); s != "" {
			if parent, err = parseHash("parent-node", s); err != nil {
				return authorizer.Request{}, err
			}
		} else {
			parent = chain.Namehash(c.String("parent-name"))
		}
		req.ParentNode = &parent
	}

	switch s := c.String("nonce"); {
	case s != "":
		if req.Nonce, err = parseDecimal("nonce", s); err != nil {
			return authorizer.Request{}, err
		}
	case c.String("rpc-url") != "":
		if req.Nonce, err = fetchNonce(c, domainContract(c), to); err != nil {
			return authorizer.Request{}, err
		}
	default:
		return authorizer.Request{}, fmt.Errorf("--nonce is required without --rpc-url")
	}

	if s := c.String("deadline"); s != "" {
		if req.Deadline, err = parseDecimal("deadline", s); err != nil {
			return authorizer.Request{}, err
		}
	} else {
		req.Deadline = uint256.NewInt(uint64(now.Add(c.Duration("ttl")).Unix()))
	}
	return req, nil
}

func domainContract(c *cli.Context) common.Address {
	return common.HexToAddress(c.String("contract"))
}

func fetchNonce(c *cli.Context, contract, recipient common.Address) (*uint256.Int, error) {
	logger := newLogger(c)
	timeout := c.Duration("timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	defer cancel()

	client, err := chain.Dial(ctx, c.String("rpc-url"), logger)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return chain.NewNonceOracle(contract, client, logger).GetNonce(ctx, recipient)
}

func loadSigner(c *cli.Context) (*signer.KeySigner, error) {
	if path := c.String("keystore"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read keystore: %w", err)
		}
		return signer.NewKeySignerFromKeystore(data, c.String("password"))
	}
	if key := c.String("key"); key != "" {
		return signer.NewKeySignerFromHex(key)
	}
	return nil, fmt.Errorf("one of --key or --keystore is required")
}

func namehashCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: permissionctl namehash <name>")
	}
	_, err := fmt.Fprintln(c.App.Writer, chain.Namehash(c.Args().First()).Hex())
	return err
}

func typedDataCommand(c *cli.Context) error {
	domain, schema, _, err := domainFromFlags(c)
	if err != nil {
		return err
	}
	req, err := requestFromFlags(c, schema, time.Now())
	if err != nil {
		return err
	}

	values := messageValues(req)
	typed, err := eip712.ToTypedData(domain, schema, values)
	if err != nil {
		return err
	}
	digest, err := eip712.Digest(domain, schema, values)
	if err != nil {
		return err
	}

	return printJSON(c, map[string]any{
		"digest":     digest.Hex(),
		"typed_data": typed,
	})
}

func messageValues(req authorizer.Request) eip712.Values {
	values := eip712.Values{
		eip712.FieldName:     req.Name,
		eip712.FieldTo:       req.Recipient,
		eip712.FieldNonce:    req.Nonce,
		eip712.FieldDeadline: req.Deadline,
	}
	if req.ParentNode != nil {
		values[eip712.FieldParentNode] = *req.ParentNode
	}
	return values
}

func signCommand(c *cli.Context) error {
	domain, schema, _, err := domainFromFlags(c)
	if err != nil {
		return err
	}
	s, err := loadSigner(c)
	if err != nil {
		return err
	}
	convention, err := sigcodec.ParseConvention(c.String("v-convention"))
	if err != nil {
		return err
	}

	now := time.Now()
	req, err := requestFromFlags(c, schema, now)
	if err != nil {
		return err
	}

	a, err := authorizer.New(authorizer.Config{
		Domain:     domain,
		Schema:     schema,
		Convention: convention,
		Clock:      func() time.Time { return now },
	}, s, newLogger(c))
	if err != nil {
		return err
	}

	auth, err := a.Authorize(c.Context, req)
	if err != nil {
		return err
	}

	out := signOutput{
		Signer:        auth.Signer.Hex(),
		Name:          auth.Request.Name,
		Recipient:     auth.Request.Recipient.Hex(),
		Nonce:         auth.Request.Nonce.Dec(),
		Deadline:      auth.Request.Deadline.Dec(),
		Digest:        auth.Digest.Hex(),
		V:             auth.Signature.V,
		R:             hexutil.Encode(auth.Signature.R[:]),
		S:             hexutil.Encode(auth.Signature.S[:]),
		Signature:     auth.Signature.Hex(),
		Authorization: hexutil.Encode(auth.Payload),
	}
	if auth.Request.ParentNode != nil {
		out.ParentNode = auth.Request.ParentNode.Hex()
	}
	return printJSON(c, out)
}

func verifyCommand(c *cli.Context) error {
	domain, schema, _, err := domainFromFlags(c)
	if err != nil {
		return err
	}

	raw, err := hexutil.Decode(c.String("authorization"))
	if err != nil {
		return fmt.Errorf("--authorization: %w", err)
	}
	payload, err := authpayload.Decode(raw)
	if err != nil {
		return err
	}

	// The deadline that was signed travels in the payload
	if err := c.Set("deadline", payload.Deadline.Dec()); err != nil {
		return err
	}
	req, err := requestFromFlags(c, schema, time.Now())
	if err != nil {
		return err
	}

	values := messageValues(req)
	digest, err := eip712.Digest(domain, schema, values)
	if err != nil {
		return err
	}
	recovered, err := eip712.Recover(domain, schema, values, payload.Signature().Bytes())
	if err != nil {
		return err
	}

	out := verifyOutput{
		Recovered: recovered.Hex(),
		Digest:    digest.Hex(),
		Deadline:  payload.Deadline.Dec(),
		Expired:   authorizer.CheckDeadline(payload.Deadline, time.Now()) != nil,
	}
	if s := c.String("signer"); s != "" {
		expected, err := parseAddress("signer", s)
		if err != nil {
			return err
		}
		matches := expected == recovered
		out.Matches = &matches
	}
	if err := printJSON(c, out); err != nil {
		return err
	}
	if out.Matches != nil && !*out.Matches {
		return fmt.Errorf("signer mismatch: recovered %s", out.Recovered)
	}
	return nil
}

func nonceCommand(c *cli.Context) error {
	contract, err := parseAddress("contract", c.String("contract"))
	if err != nil {
		return err
	}
	to, err := parseAddress("to", c.String("to"))
	if err != nil {
		return err
	}
	n, err := fetchNonce(c, contract, to)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, n.Dec())
	return err
}

func registerCommand(c *cli.Context) error {
	logger := newLogger(c)

	registrarAddr, err := parseAddress("registrar", c.String("registrar"))
	if err != nil {
		return err
	}
	to, err := parseAddress("to", c.String("to"))
	if err != nil {
		return err
	}
	payload, err := hexutil.Decode(c.String("authorization"))
	if err != nil {
		return fmt.Errorf("--authorization: %w", err)
	}
	if _, err := authpayload.Decode(payload); err != nil {
		return err
	}
	extra, err := hexutil.Decode(c.String("extra-data"))
	if err != nil {
		return fmt.Errorf("--extra-data: %w", err)
	}

	reg := chain.Registration{
		Name:          c.String("name"),
		Recipient:     to,
		Authorization: payload,
		ExtraData:     extra,
	}
	if s := c.String("parent-node"); s != "" {
		parent, err := parseHash("parent-node", s)
		if err != nil {
			return err
		}
		reg.ParentNode = &parent
	}

	submitter, err := signer.NewKeySignerFromHex(c.String("submitter-key"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	client, err := chain.Dial(ctx, c.String("rpc-url"), logger)
	if err != nil {
		return err
	}
	defer client.Close()

	registrar, err := chain.NewRegistrar(registrarAddr, eip712.Variant(c.String("variant")), client,
		submitter.PrivateKey(), new(big.Int).SetUint64(c.Uint64("chain-id")), logger)
	if err != nil {
		return err
	}

	receipt, err := registrar.Register(ctx, reg)
	if receipt != nil {
		_ = printJSON(c, map[string]any{
			"tx_hash":  receipt.TxHash.Hex(),
			"status":   receipt.Status,
			"gas_used": receipt.GasUsed,
		})
	}
	return err
}
