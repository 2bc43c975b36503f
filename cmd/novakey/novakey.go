// Copyright (c) 2024-2026 The Novasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// novakey is a small operational front end for the novaec module.  It
// generates keypairs, produces and checks compact recoverable signatures,
// and drives both sides of the stealth variant protocol.
//
// Exit codes: 0 on success or match, 1 on failure or no match, 2 on usage
// errors.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/decred/base58"
	"github.com/decred/slog"
	flags "github.com/jessevdk/go-flags"

	"github.com/novasuite/novaec"
	"github.com/novasuite/novaec/stealth"
)

// secretVersion is the version prefix for Base58Check encoded secrets.
var secretVersion = [2]byte{0x80, 0x00}

// log is the command diagnostics logger.  It stays disabled unless verbose
// output is requested, so secrets on stdout are never interleaved with
// diagnostics.
var log = slog.Disabled

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func usagef(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(2)
}

// parseHexArg decodes a hex command line argument, enforcing an exact byte
// length when wantLen is positive.
func parseHexArg(name, value string, wantLen int) []byte {
	if value == "" {
		usagef("missing required %s\n", name)
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		usagef("invalid %s: %v\n", name, err)
	}
	if wantLen > 0 && len(b) != wantLen {
		usagef("invalid %s: got %d bytes, want %d\n", name, len(b), wantLen)
	}
	return b
}

// parseSecretArg decodes a secret provided either as 64 hex characters or in
// the Base58Check form printed by the gen commands.
func parseSecretArg(name, value string) []byte {
	if value == "" {
		usagef("missing required %s\n", name)
	}
	if b, err := hex.DecodeString(value); err == nil && len(b) == 32 {
		return b
	}
	b, version, err := base58.CheckDecode(value)
	if err != nil || version != secretVersion || len(b) != 32 {
		usagef("invalid %s: not a 32-byte hex or Base58Check secret\n", name)
	}
	return b
}

type genCmd struct {
	Compressed bool `short:"c" long:"compressed" description:"use the compressed public key form"`
}

func (c *genCmd) Execute(args []string) error {
	key := novaec.NewKey()
	if err := key.MakeNew(c.Compressed); err != nil {
		return err
	}
	secret, _, err := key.Secret()
	if err != nil {
		return err
	}
	pub, err := key.PublicKey()
	if err != nil {
		return err
	}
	log.Debugf("generated %d-byte public key", len(pub))
	fmt.Printf("secret: %s\n", base58.CheckEncode(secret, secretVersion))
	fmt.Printf("pubkey: %x\n", pub)
	return nil
}

type signCmd struct {
	Key        string `short:"k" long:"key" description:"signing secret (hex or Base58Check)"`
	Msg        string `short:"m" long:"msg" description:"32-byte message hash (hex)"`
	Compressed bool   `short:"c" long:"compressed" description:"declare the compressed public key form in the header"`
}

func (c *signCmd) Execute(args []string) error {
	secret := parseSecretArg("secret", c.Key)
	hash := parseHexArg("message hash", c.Msg, 32)

	key := novaec.NewKey()
	if err := key.SetSecret(secret, c.Compressed); err != nil {
		return err
	}
	defer key.Reset()
	sig, err := key.SignCompact(hash)
	if err != nil {
		return err
	}
	log.Debugf("recovery header byte %#x", sig[0])
	fmt.Printf("%x\n", sig)
	return nil
}

type verifyCmd struct {
	Pub string `short:"p" long:"pub" description:"signer public key (hex)"`
	Msg string `short:"m" long:"msg" description:"32-byte message hash (hex)"`
	Sig string `short:"s" long:"sig" description:"65-byte compact signature (hex)"`
}

func (c *verifyCmd) Execute(args []string) error {
	pub := parseHexArg("public key", c.Pub, 0)
	hash := parseHexArg("message hash", c.Msg, 32)
	sig := parseHexArg("signature", c.Sig, novaec.CompactSigSize)

	key := novaec.NewKey()
	if err := key.SetPublicKey(pub); err != nil {
		return err
	}
	if !key.VerifyCompact(hash, sig) {
		fatalf("verification failed\n")
	}
	fmt.Println("OK")
	return nil
}

type recoverCmd struct {
	Msg string `short:"m" long:"msg" description:"32-byte message hash (hex)"`
	Sig string `short:"s" long:"sig" description:"65-byte compact signature (hex)"`
}

func (c *recoverCmd) Execute(args []string) error {
	hash := parseHexArg("message hash", c.Msg, 32)
	sig := parseHexArg("signature", c.Sig, novaec.CompactSigSize)

	key := novaec.NewKey()
	if err := key.SetCompactSignature(hash, sig); err != nil {
		return err
	}
	pub, err := key.PublicKey()
	if err != nil {
		return err
	}
	log.Debugf("header declares compressed=%v", key.IsCompressed())
	fmt.Printf("%x\n", pub)
	return nil
}

type stealthGenCmd struct{}

func (c *stealthGenCmd) Execute(args []string) error {
	mk := stealth.NewMutableKey()
	if err := mk.MakeNew(); err != nil {
		return err
	}
	defer mk.Reset()
	lSecret, hSecret, err := mk.Secrets()
	if err != nil {
		return err
	}
	fmt.Printf("l secret:   %s\n", base58.CheckEncode(lSecret, secretVersion))
	fmt.Printf("h secret:   %s\n", base58.CheckEncode(hSecret, secretVersion))
	fmt.Printf("mutable pub: %x\n", mk.PubKey().Serialize())
	return nil
}

type stealthDeriveCmd struct {
	Pub string `short:"P" long:"pub" description:"66-byte mutable public key (hex)"`
}

func (c *stealthDeriveCmd) Execute(args []string) error {
	serialized := parseHexArg("mutable public key", c.Pub,
		stealth.MutablePubKeySize)
	mpk, err := stealth.ParseMutablePubKey(serialized)
	if err != nil {
		return err
	}

	rPub, variant, err := mpk.DeriveVariant()
	if err != nil {
		return err
	}
	fmt.Printf("R: %x\n", rPub)
	fmt.Printf("P: %x\n", variant)
	return nil
}

type stealthScanCmd struct {
	LSecret string `short:"l" long:"lsec" description:"recipient l secret (hex or Base58Check)"`
	HSecret string `short:"s" long:"hsec" description:"recipient h secret (hex or Base58Check)"`
	HPub    string `short:"H" long:"hpub" description:"H point override (hex, defaults to h*G)"`
	RPub    string `short:"R" long:"witness" description:"33-byte witness point R (hex)"`
	Variant string `short:"P" long:"variant" description:"33-byte variant public key P (hex)"`
}

func (c *stealthScanCmd) Execute(args []string) error {
	lSecret := parseSecretArg("l secret", c.LSecret)
	hSecret := parseSecretArg("h secret", c.HSecret)
	rPub := parseHexArg("witness point", c.RPub,
		novaec.PubKeyBytesLenCompressed)
	variant := parseHexArg("variant", c.Variant,
		novaec.PubKeyBytesLenCompressed)

	mk := stealth.NewMutableKey()
	if err := mk.SetSecrets(lSecret, hSecret); err != nil {
		return err
	}
	defer mk.Reset()

	hPub := mk.PubKey().H().SerializeCompressed()
	if c.HPub != "" {
		hPub = parseHexArg("H point", c.HPub, novaec.PubKeyBytesLenCompressed)
	}

	oneTime, ok := mk.CheckVariant(rPub, hPub, variant)
	if !ok {
		fatalf("no match\n")
	}
	defer oneTime.Reset()
	secret, _, err := oneTime.Secret()
	if err != nil {
		return err
	}
	log.Debugf("variant recognized")
	fmt.Printf("%x\n", secret)
	return nil
}

type options struct {
	Verbose bool `short:"v" long:"verbose" description:"enable verbose diagnostics on stderr"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if opts.Verbose {
			backend := slog.NewBackend(os.Stderr)
			log = backend.Logger("NVKY")
			log.SetLevel(slog.LevelDebug)
		}
		return command.Execute(args)
	}

	parser.AddCommand("gen", "Generate a keypair",
		"Generate a fresh keypair and print its secret and public key.",
		&genCmd{})
	parser.AddCommand("sign", "Compact-sign a message hash",
		"Produce a 65-byte compact recoverable signature over a 32-byte hash.",
		&signCmd{})
	parser.AddCommand("verify", "Verify a compact signature",
		"Verify a compact signature against a public key and message hash.",
		&verifyCmd{})
	parser.AddCommand("recover", "Recover the signer public key",
		"Recover the public key of the signer from a compact signature.",
		&recoverCmd{})
	parser.AddCommand("stealth-gen", "Generate a mutable key",
		"Generate a mutable keypair and print its secrets and public form.",
		&stealthGenCmd{})
	parser.AddCommand("stealth-derive", "Derive a one-time variant",
		"Derive a fresh one-time variant of a mutable public key.",
		&stealthDeriveCmd{})
	parser.AddCommand("stealth-scan", "Recognize a one-time variant",
		"Check a variant against a mutable key and print the one-time secret.",
		&stealthScanCmd{})

	if _, err := parser.Parse(); err != nil {
		var e *flags.Error
		if errors.As(err, &e) {
			if e.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(2)
		}
		os.Exit(1)
	}
}
