// hdgen generates batches of independent HD wallets for EVM and Solana
// networks, entirely offline.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/Klingon-tech/hdgen/config"
	"github.com/Klingon-tech/hdgen/internal/export"
	"github.com/Klingon-tech/hdgen/internal/generator"
	"github.com/Klingon-tech/hdgen/internal/log"
	"github.com/Klingon-tech/hdgen/internal/network"
	"github.com/Klingon-tech/hdgen/internal/storage"
	"github.com/Klingon-tech/hdgen/internal/wallet"
)

func main() {
	cfg, flags, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		config.PrintUsage(os.Stderr)
		os.Exit(1)
	}
	if flags.Help {
		config.PrintUsage(os.Stdout)
		return
	}
	if flags.Version {
		fmt.Printf("hdgen version %s\n", config.Version)
		return
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.LogFilePath()); err != nil {
		fatal("init logging: %v", err)
	}

	args := flags.Args
	if len(args) == 0 {
		config.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]
	log.CLI.Debug().Str("command", cmd).Str("datadir", cfg.DataDir).Msg("Dispatch")

	switch cmd {
	case "generate", "gen":
		cmdGenerate(cfg, cmdArgs)
	case "networks":
		cmdNetworks(cfg)
	case "network":
		cmdNetwork(cfg, cmdArgs)
	case "decrypt":
		cmdDecrypt(cmdArgs)
	case "version":
		fmt.Printf("hdgen version %s\n", config.Version)
	case "help":
		config.PrintUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		config.PrintUsage(os.Stderr)
		os.Exit(1)
	}
}

// openRegistry opens the custom network registry in the data directory.
// The returned func closes the underlying database.
func openRegistry(cfg *config.Config) (*network.Registry, func()) {
	db, err := storage.NewBadger(cfg.NetworksDir())
	if err != nil {
		fatal("open network registry: %v", err)
	}
	return network.NewRegistry(db), func() {
		if err := db.Close(); err != nil {
			log.Storage.Warn().Err(err).Msg("Close network registry")
		}
	}
}

// ── generate ────────────────────────────────────────────────────────────

func cmdGenerate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	count := fs.Int("count", 1, "Number of wallets")
	fs.IntVar(count, "n", 1, "Number of wallets (shorthand)")
	netName := fs.String("network", cfg.Generator.Network, "Network name")
	words := fs.Int("words", cfg.Generator.WordCount, "Mnemonic length (12, 15, 18, 21, 24)")
	workers := fs.Int("workers", cfg.Generator.Workers, "Wallets derived in parallel")
	format := fs.String("format", cfg.Output.Format, "Output format: table, json or csv")
	out := fs.String("out", "", "Write output to file (mode 0600)")
	showSecrets := fs.Bool("show-secrets", cfg.Output.ShowSecrets, "Print mnemonics and private keys")
	encrypt := fs.Bool("encrypt", false, "Encrypt the --out file with a passphrase")
	quiet := fs.Bool("quiet", false, "Suppress progress output")

	// Unsaved custom network.
	chain := fs.String("chain", "", "Custom network chain type: evm or solana")
	name := fs.String("name", "", "Custom network name")
	rpcURL := fs.String("rpc", "", "Custom network RPC URL (metadata only)")
	chainID := fs.String("chain-id", "", "Custom network chain id (metadata only)")
	pathTmpl := fs.String("path", "", "Derivation path template with {index}")
	fs.Parse(args)

	opts, err := outputOptions(outputRequest{
		Format:      *format,
		Out:         *out,
		ShowSecrets: *showSecrets,
		Encrypt:     *encrypt,
		StdoutTTY:   term.IsTerminal(int(os.Stdout.Fd())),
	})
	if err != nil {
		fatal("%v", err)
	}
	if *workers < 1 || *workers > config.MaxWorkers {
		fatal("--workers must be in range [1, %d]", config.MaxWorkers)
	}

	var spec network.Spec
	if *chain != "" {
		spec = customSpec(*name, *chain, *rpcURL, *chainID, *pathTmpl)
	} else {
		registry, closeDB := openRegistry(cfg)
		spec, err = registry.Lookup(*netName)
		closeDB()
		if err != nil {
			fatal("%v (see `hdgen networks`)", err)
		}
	}

	var passphrase []byte
	if *encrypt {
		passphrase = readNewPassphrase()
	}

	gen := generator.New(wallet.NewEngine(),
		generator.WithMaxWalletCount(cfg.Generator.MaxWalletCount),
		generator.WithWorkers(*workers),
	)
	req := generator.Request{Count: *count, Network: spec, WordCount: *words}
	if err := gen.Check(req); err != nil {
		fatal("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := gen.Start(ctx, req)
	showProgress := !*quiet && term.IsTerminal(int(os.Stderr.Fd()))
	for p := range job.Progress() {
		if showProgress {
			fmt.Fprintf(os.Stderr, "\rGenerating %s wallets: %d/%d", spec.Name, p.Done, p.Total)
		}
	}
	if showProgress {
		fmt.Fprintln(os.Stderr)
	}
	records, err := job.Result()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fatal("interrupted, no wallets were kept")
		}
		fatal("generate: %v", err)
	}

	fingerprint := generator.Fingerprint(records)
	opts.Fingerprint = fingerprint

	if *out == "" {
		if err := export.Write(os.Stdout, records, opts); err != nil {
			fatal("write output: %v", err)
		}
	} else {
		var buf bytes.Buffer
		if err := export.Write(&buf, records, opts); err != nil {
			fatal("render output: %v", err)
		}
		data := buf.Bytes()
		if *encrypt {
			data, err = export.Seal(data, passphrase, export.DefaultKDFParams())
			clear(passphrase)
			clear(buf.Bytes())
			if err != nil {
				fatal("encrypt output: %v", err)
			}
		}
		if err := writeSecretFile(*out, data); err != nil {
			fatal("write %s: %v", *out, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d wallets to %s\n", len(records), *out)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Batch fingerprint: %s\n", fingerprint)
	}
}

var (
	errEncryptNeedsOut   = errors.New("--encrypt requires --out")
	errSecretsToTerminal = errors.New("refusing to print mnemonics and private keys to a terminal; use --out or --show-secrets")
)

// outputRequest carries the generate flags that decide how records are written.
type outputRequest struct {
	Format      string
	Out         string
	ShowSecrets bool
	Encrypt     bool
	StdoutTTY   bool
}

// outputOptions applies the secret policy: json and csv always carry secrets,
// so they reach a terminal only with --show-secrets. Table output masks
// secrets unless asked, or when written to a file.
func outputOptions(r outputRequest) (export.Options, error) {
	format, err := export.ParseFormat(r.Format)
	if err != nil {
		return export.Options{}, err
	}
	if r.Encrypt && r.Out == "" {
		return export.Options{}, errEncryptNeedsOut
	}
	if r.Out == "" && r.StdoutTTY && format != export.FormatTable && !r.ShowSecrets {
		return export.Options{}, errSecretsToTerminal
	}
	return export.Options{
		Format:      format,
		ShowSecrets: r.ShowSecrets || r.Out != "",
	}, nil
}

func customSpec(name, chain, rpcURL, chainID, pathTmpl string) network.Spec {
	kind, err := wallet.ParseChainKind(chain)
	if err != nil {
		fatal("%v", err)
	}
	id := parseChainID(chainID)
	spec, err := network.NewCustom(name, kind, rpcURL, id, pathTmpl)
	if err != nil {
		fatal("custom network: %v", err)
	}
	return spec
}

func parseChainID(s string) *uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fatal("invalid chain id %q: must be a positive integer", s)
	}
	return &id
}

// writeSecretFile writes data readable by the owner only, replacing any
// existing file.
func writeSecretFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if err := f.Chmod(0600); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ── networks ────────────────────────────────────────────────────────────

func cmdNetworks(cfg *config.Config) {
	registry, closeDB := openRegistry(cfg)
	defer closeDB()

	all, err := registry.All()
	if err != nil {
		fatal("list networks: %v", err)
	}
	printNetworks(os.Stdout, all)
}

func printNetworks(w io.Writer, specs []network.Spec) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCHAIN\tCHAIN ID\tPATH\tRPC\tTYPE")
	for _, s := range specs {
		kind := "preset"
		if s.Custom {
			kind = "custom"
		}
		rpc := s.RPCURL
		if rpc == "" {
			rpc = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.Name, s.Kind, s.ChainIDString(), s.PathTemplate, rpc, kind)
	}
	tw.Flush()
}

func cmdNetwork(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fatal("Usage: hdgen network <add|remove|clear> [flags]")
	}

	switch args[0] {
	case "add":
		cmdNetworkAdd(cfg, args[1:])
	case "remove", "rm":
		cmdNetworkRemove(cfg, args[1:])
	case "clear":
		cmdNetworkClear(cfg)
	default:
		fatal("Unknown network command: %s\nUsage: hdgen network <add|remove|clear> [flags]", args[0])
	}
}

func cmdNetworkAdd(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("network add", flag.ExitOnError)
	name := fs.String("name", "", "Network name")
	chain := fs.String("chain", "evm", "Chain type: evm or solana")
	rpcURL := fs.String("rpc", "", "RPC URL (metadata only)")
	chainID := fs.String("chain-id", "", "Chain id (metadata only)")
	pathTmpl := fs.String("path", "", "Derivation path template with {index}")
	fs.Parse(args)

	spec := customSpec(*name, *chain, *rpcURL, *chainID, *pathTmpl)

	registry, closeDB := openRegistry(cfg)
	defer closeDB()
	if err := registry.Add(spec); err != nil {
		fatal("add network: %v", err)
	}
	fmt.Printf("Saved %s network %q (path %s)\n", spec.Kind, spec.Name, spec.PathTemplate)
}

func cmdNetworkRemove(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("network remove", flag.ExitOnError)
	name := fs.String("name", "", "Network name")
	fs.Parse(args)

	if *name == "" && fs.NArg() > 0 {
		*name = strings.Join(fs.Args(), " ")
	}
	if *name == "" {
		fatal("Usage: hdgen network remove --name <name>")
	}

	registry, closeDB := openRegistry(cfg)
	defer closeDB()
	if err := registry.Remove(*name); err != nil {
		fatal("remove network: %v", err)
	}
	fmt.Printf("Removed network %q\n", *name)
}

func cmdNetworkClear(cfg *config.Config) {
	registry, closeDB := openRegistry(cfg)
	defer closeDB()
	if err := registry.Clear(); err != nil {
		fatal("%v", err)
	}
	fmt.Println("Removed all custom networks")
}

// ── decrypt ─────────────────────────────────────────────────────────────

func cmdDecrypt(args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	in := fs.String("in", "", "Encrypted export")
	out := fs.String("out", "", "Write plaintext to file (mode 0600); default stdout")
	fs.Parse(args)

	if *in == "" {
		fatal("Usage: hdgen decrypt --in <file> [--out <file>]")
	}
	sealed, err := os.ReadFile(*in)
	if err != nil {
		fatal("read %s: %v", *in, err)
	}
	if !export.IsSealed(sealed) {
		fatal("%s is not an encrypted hdgen export", *in)
	}

	passphrase, err := readPassword("Passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	plaintext, err := export.Open(sealed, passphrase)
	clear(passphrase)
	if err != nil {
		fatal("%v", err)
	}
	defer clear(plaintext)

	if *out == "" {
		os.Stdout.Write(plaintext)
		return
	}
	if err := writeSecretFile(*out, plaintext); err != nil {
		fatal("write %s: %v", *out, err)
	}
	fmt.Fprintf(os.Stderr, "Decrypted to %s\n", *out)
}

// ── Password helpers ────────────────────────────────────────────────────

func readNewPassphrase() []byte {
	pass, err := readPassword("Encryption passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	if len(pass) == 0 {
		fatal("passphrase must not be empty")
	}
	confirm, err := readPassword("Confirm passphrase: ")
	if err != nil {
		fatal("read passphrase: %v", err)
	}
	defer clear(confirm)
	if !bytes.Equal(pass, confirm) {
		fatal("passphrases do not match")
	}
	return pass
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
