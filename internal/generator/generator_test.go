package generator

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/Klingon-tech/hdgen/internal/log"
	"github.com/Klingon-tech/hdgen/internal/network"
	"github.com/Klingon-tech/hdgen/internal/wallet"
)

func preset(t *testing.T, name string) network.Spec {
	t.Helper()
	s, ok := network.Preset(name)
	if !ok {
		t.Fatalf("preset %q not found", name)
	}
	return s
}

func newTestGenerator(opts ...Option) *Generator {
	opts = append([]Option{WithLogger(log.Nop())}, opts...)
	return New(nil, opts...)
}

// failingDeriver fails for the path whose last index equals failAt.
type failingDeriver struct {
	failAt uint32
	inner  wallet.Deriver
}

var errInjected = errors.New("injected failure")

func (d failingDeriver) Derive(seed []byte, path wallet.Path) (wallet.Account, error) {
	if path[len(path)-1].Index == d.failAt {
		return wallet.Account{}, errInjected
	}
	return d.inner.Derive(seed, path)
}

type progressLog struct {
	mu     sync.Mutex
	events []Progress
}

func (p *progressLog) record(ev Progress) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *progressLog) assertMonotonic(t *testing.T, total int) {
	t.Helper()
	if len(p.events) != total {
		t.Fatalf("got %d progress events, want %d", len(p.events), total)
	}
	for i, ev := range p.events {
		if ev.Done != i+1 || ev.Total != total {
			t.Errorf("progress[%d] = %+v, want {%d %d}", i, ev, i+1, total)
		}
	}
}

func TestGenerate_EVMScenario(t *testing.T) {
	g := newTestGenerator()
	var pl progressLog
	records, err := g.Generate(context.Background(), Request{Count: 3, Network: preset(t, "Ethereum")}, pl.record)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	pl.assertMonotonic(t, 3)

	seen := make(map[string]bool)
	for i, r := range records {
		if r.Index != i+1 {
			t.Errorf("record %d index = %d", i, r.Index)
		}
		if want := fmt.Sprintf("m/44'/60'/0'/0/%d", i); r.DerivationPath != want {
			t.Errorf("record %d path = %s, want %s", i, r.DerivationPath, want)
		}
		if r.Chain != wallet.ChainEVM || r.Network != "Ethereum" {
			t.Errorf("record %d chain/network = %s/%s", i, r.Chain, r.Network)
		}
		if !strings.HasPrefix(r.Address, "0x") || len(r.Address) != 42 {
			t.Errorf("record %d address = %s", i, r.Address)
		}
		if _, err := hex.DecodeString(strings.ToLower(r.Address[2:])); err != nil {
			t.Errorf("record %d address not hex: %v", i, err)
		}
		if len(r.PrivateKey) != 64 {
			t.Errorf("record %d private key length = %d", i, len(r.PrivateKey))
		}
		if !wallet.ValidateMnemonic(r.Mnemonic) || len(strings.Fields(r.Mnemonic)) != 12 {
			t.Errorf("record %d mnemonic invalid", i)
		}
		if seen[strings.ToLower(r.Address)] {
			t.Errorf("duplicate address %s", r.Address)
		}
		seen[strings.ToLower(r.Address)] = true
	}
	if records[0].Mnemonic == records[1].Mnemonic {
		t.Error("records should use independent mnemonics")
	}
}

func TestGenerate_SolanaScenario(t *testing.T) {
	g := newTestGenerator()
	records, err := g.Generate(context.Background(), Request{Count: 2, Network: preset(t, "Solana")}, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i, r := range records {
		if want := fmt.Sprintf("m/44'/501'/0'/0'/%d'", i); r.DerivationPath != want {
			t.Errorf("record %d path = %s, want %s", i, r.DerivationPath, want)
		}
		pub, err := base58.Decode(r.Address)
		if err != nil || len(pub) != 32 {
			t.Errorf("record %d address decodes to %d bytes (err %v)", i, len(pub), err)
		}
		secret, err := base58.Decode(r.PrivateKey)
		if err != nil || len(secret) != 64 {
			t.Errorf("record %d secret decodes to %d bytes (err %v)", i, len(secret), err)
		}
	}
}

func TestGenerate_RecordMatchesRederivation(t *testing.T) {
	g := newTestGenerator()
	records, err := g.Generate(context.Background(), Request{Count: 2, Network: preset(t, "Polygon")}, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	engine := wallet.NewEngine()
	for _, r := range records {
		path, err := wallet.ParsePath(r.DerivationPath)
		if err != nil {
			t.Fatalf("ParsePath() error: %v", err)
		}
		acct, err := engine.DeriveAccount(r.Chain, r.Mnemonic, path)
		if err != nil {
			t.Fatalf("DeriveAccount() error: %v", err)
		}
		if acct.Address != r.Address || acct.PrivateKey != r.PrivateKey {
			t.Errorf("record %d does not rederive from its mnemonic", r.Index)
		}
	}
}

func TestGenerate_WordCount(t *testing.T) {
	g := newTestGenerator()
	records, err := g.Generate(context.Background(), Request{Count: 1, Network: preset(t, "Ethereum"), WordCount: 24}, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if n := len(strings.Fields(records[0].Mnemonic)); n != 24 {
		t.Errorf("mnemonic has %d words, want 24", n)
	}

	_, err = g.Generate(context.Background(), Request{Count: 1, Network: preset(t, "Ethereum"), WordCount: 13}, nil)
	if !errors.Is(err, wallet.ErrInvalidWordCount) {
		t.Errorf("error = %v, want ErrInvalidWordCount", err)
	}
}

func TestGenerate_CountBounds(t *testing.T) {
	g := newTestGenerator(WithMaxWalletCount(4))
	eth := preset(t, "Ethereum")

	for _, n := range []int{0, -1, 5} {
		called := false
		_, err := g.Generate(context.Background(), Request{Count: n, Network: eth}, func(Progress) { called = true })
		if !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Generate(%d) error = %v, want ErrInvalidCount", n, err)
		}
		if called {
			t.Errorf("Generate(%d) reported progress before failing", n)
		}
	}

	records, err := g.Generate(context.Background(), Request{Count: 4, Network: eth}, nil)
	if err != nil {
		t.Fatalf("Generate(max) error: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("Generate(max) returned %d records", len(records))
	}
}

func TestValidateCount_DefaultCap(t *testing.T) {
	g := newTestGenerator()
	if g.MaxWalletCount() != DefaultMaxWalletCount {
		t.Fatalf("MaxWalletCount() = %d, want %d", g.MaxWalletCount(), DefaultMaxWalletCount)
	}
	if err := g.ValidateCount(DefaultMaxWalletCount); err != nil {
		t.Errorf("ValidateCount(max) error: %v", err)
	}
	if err := g.ValidateCount(DefaultMaxWalletCount + 1); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("ValidateCount(max+1) error = %v, want ErrInvalidCount", err)
	}
}

func TestGenerate_Prechecks(t *testing.T) {
	g := newTestGenerator()

	bogus := network.Spec{Name: "Bogus", Kind: wallet.ChainKind(7), PathTemplate: network.EVMPathTemplate}
	if _, err := g.Generate(context.Background(), Request{Count: 1, Network: bogus}, nil); !errors.Is(err, wallet.ErrUnsupportedChain) {
		t.Errorf("unsupported kind error = %v, want ErrUnsupportedChain", err)
	}

	badPath := network.Spec{Name: "Bad", Kind: wallet.ChainEVM, PathTemplate: "m/44'/60'/0'/0/0"}
	if _, err := g.Generate(context.Background(), Request{Count: 1, Network: badPath}, nil); !errors.Is(err, wallet.ErrInvalidPath) {
		t.Errorf("bad template error = %v, want ErrInvalidPath", err)
	}
}

func TestGenerate_TemplateOverflowsAtLastIndex(t *testing.T) {
	g := newTestGenerator()
	spec, err := network.NewCustom("Edge", wallet.ChainEVM, "", nil, "m/44'/60'/0'/0/214748364{index}")
	if err != nil {
		t.Fatalf("NewCustom() error: %v", err)
	}

	// Index 7 expands to 2147483647, index 8 to 2147483648.
	if err := g.Check(Request{Count: 8, Network: spec}); err != nil {
		t.Fatalf("Check(8) error: %v", err)
	}
	if err := g.Check(Request{Count: 10, Network: spec}); !errors.Is(err, wallet.ErrInvalidPath) {
		t.Fatalf("Check(10) error = %v, want ErrInvalidPath", err)
	}

	called := false
	_, err = g.Generate(context.Background(), Request{Count: 10, Network: spec}, func(Progress) { called = true })
	if !errors.Is(err, wallet.ErrInvalidPath) {
		t.Fatalf("Generate() error = %v, want ErrInvalidPath", err)
	}
	var ue *UnitError
	if errors.As(err, &ue) {
		t.Errorf("Generate() error is a unit error for wallet %d, want a precheck failure", ue.Index)
	}
	if called {
		t.Error("Generate() reported progress before failing")
	}
}

func TestGenerate_FailFast(t *testing.T) {
	engine := wallet.NewEngine(wallet.WithDeriver(wallet.ChainEVM, failingDeriver{failAt: 2, inner: wallet.Secp256k1Deriver{}}))
	g := New(engine, WithLogger(log.Nop()))

	var pl progressLog
	records, err := g.Generate(context.Background(), Request{Count: 5, Network: preset(t, "Ethereum")}, pl.record)
	if records != nil {
		t.Errorf("failed batch returned %d records", len(records))
	}
	if !errors.Is(err, errInjected) {
		t.Fatalf("error = %v, want injected failure", err)
	}
	var ue *UnitError
	if !errors.As(err, &ue) {
		t.Fatalf("error %T is not *UnitError", err)
	}
	if ue.Index != 3 {
		t.Errorf("UnitError.Index = %d, want 3", ue.Index)
	}
	if len(pl.events) != 2 {
		t.Errorf("got %d progress events before failure, want 2", len(pl.events))
	}
}

func TestGenerate_Cancel(t *testing.T) {
	g := newTestGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pl progressLog
	records, err := g.Generate(ctx, Request{Count: 10, Network: preset(t, "Ethereum")}, func(p Progress) {
		pl.record(p)
		if p.Done == 2 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if records != nil {
		t.Error("cancelled batch should not return records")
	}
	if len(pl.events) != 2 {
		t.Errorf("got %d progress events, want 2", len(pl.events))
	}
}

func TestGenerate_Parallel(t *testing.T) {
	g := newTestGenerator(WithWorkers(4))
	var pl progressLog
	records, err := g.Generate(context.Background(), Request{Count: 12, Network: preset(t, "Solana Devnet")}, pl.record)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	pl.assertMonotonic(t, 12)

	seen := make(map[string]bool)
	for i, r := range records {
		if r.Index != i+1 {
			t.Errorf("record %d index = %d", i, r.Index)
		}
		if want := fmt.Sprintf("m/44'/501'/0'/0'/%d'", i); r.DerivationPath != want {
			t.Errorf("record %d path = %s, want %s", i, r.DerivationPath, want)
		}
		if seen[r.Address] {
			t.Errorf("duplicate address %s", r.Address)
		}
		seen[r.Address] = true
	}
}

func TestGenerate_ParallelFailFast(t *testing.T) {
	engine := wallet.NewEngine(wallet.WithDeriver(wallet.ChainEVM, failingDeriver{failAt: 5, inner: wallet.Secp256k1Deriver{}}))
	g := New(engine, WithWorkers(3), WithLogger(log.Nop()))

	records, err := g.Generate(context.Background(), Request{Count: 9, Network: preset(t, "Optimism")}, nil)
	if records != nil {
		t.Errorf("failed batch returned %d records", len(records))
	}
	var ue *UnitError
	if !errors.As(err, &ue) || ue.Index != 6 {
		t.Fatalf("error = %v, want *UnitError for wallet 6", err)
	}
}

func TestStart_Job(t *testing.T) {
	g := newTestGenerator()
	job := g.Start(context.Background(), Request{Count: 3, Network: preset(t, "BNB Smart Chain")})

	var got []Progress
	for p := range job.Progress() {
		got = append(got, p)
	}
	records, err := job.Result()
	if err != nil {
		t.Fatalf("Result() error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3", len(records))
	}
	if len(got) != 3 || got[2] != (Progress{Done: 3, Total: 3}) {
		t.Errorf("progress stream = %v", got)
	}
	select {
	case <-job.Done():
	default:
		t.Error("Done() should be closed after Result()")
	}
}

func TestStart_JobError(t *testing.T) {
	g := newTestGenerator(WithMaxWalletCount(2))
	job := g.Start(context.Background(), Request{Count: 3, Network: preset(t, "Ethereum")})
	for range job.Progress() {
	}
	if _, err := job.Result(); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("Result() error = %v, want ErrInvalidCount", err)
	}
}

func TestFingerprint(t *testing.T) {
	records := []wallet.Record{
		{Index: 1, DerivationPath: "m/44'/60'/0'/0/0", Address: "0xabc", Mnemonic: "one", PrivateKey: "k1"},
		{Index: 2, DerivationPath: "m/44'/60'/0'/0/1", Address: "0xdef", Mnemonic: "two", PrivateKey: "k2"},
	}
	fp := Fingerprint(records)
	if len(fp) != 64 {
		t.Fatalf("fingerprint length = %d, want 64", len(fp))
	}
	if Fingerprint(records) != fp {
		t.Error("fingerprint should be deterministic")
	}

	secretsChanged := append([]wallet.Record(nil), records...)
	secretsChanged[0].Mnemonic = "other"
	secretsChanged[0].PrivateKey = "other"
	if Fingerprint(secretsChanged) != fp {
		t.Error("fingerprint should not depend on secrets")
	}

	addrChanged := append([]wallet.Record(nil), records...)
	addrChanged[1].Address = "0x123"
	if Fingerprint(addrChanged) == fp {
		t.Error("fingerprint should change with addresses")
	}
}
