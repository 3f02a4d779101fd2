// certify is the operator CLI for the credential attestation protocol:
// fingerprint documents, anchor and revoke attestations, and verify
// submitted files against the registry.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"certifychain.io/certify/analyzer"
	"certifychain.io/certify/credential"
	"certifychain.io/certify/crosscheck"
	"certifychain.io/certify/identity"
	"certifychain.io/certify/ledger"
	"certifychain.io/certify/ledger/grpcledger"
	"certifychain.io/certify/ledger/memledger"
	"certifychain.io/certify/metastore"
	"certifychain.io/certify/storage"
	"certifychain.io/certify/storage/grpcstore"
	"certifychain.io/certify/storage/ipfs"
	"certifychain.io/certify/storage/localfs"
	"certifychain.io/certify/workflow"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "fingerprint":
		return cmdFingerprint(args[1:], out, errOut)
	case "attest":
		return cmdAttest(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "revoke":
		return cmdRevoke(args[1:], out, errOut)
	case "list":
		return cmdList(args[1:], out, errOut)
	case "institution":
		return cmdInstitution(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "certify: credential attestation and verification CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  certify fingerprint (--name <n> --id <i> --type <t> | --file <path>)")
	fmt.Fprintln(w, "  certify attest --file <path> [--name ... --id ... --type ...] [conn flags]")
	fmt.Fprintln(w, "  certify verify --file <path> [conn flags]")
	fmt.Fprintln(w, "  certify revoke --hash <fingerprint> [conn flags]")
	fmt.Fprintln(w, "  certify list [conn flags]")
	fmt.Fprintln(w, "  certify institution add --address <addr> --inst-name <n> [--website <url>] [conn flags]")
	fmt.Fprintln(w, "  certify institution remove --address <addr> [conn flags]")
	fmt.Fprintln(w, "  certify institution show --address <addr> [conn flags]")
	fmt.Fprintln(w, "  certify key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  certify key list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conn flags:")
	fmt.Fprintln(w, "  --ledger <addr>      registry node (default 127.0.0.1:7799), or mem:<snapshot.json>")
	fmt.Fprintln(w, "  --ledger-alt <addr>  alternate registry node for read failover")
	fmt.Fprintln(w, "  --store <spec>       blob store: localfs:<dir>, ipfs, grpc:<addr>, comma-chained")
	fmt.Fprintln(w, "  --key <name>         signing identity (from 'certify key init')")
	fmt.Fprintln(w, "  --keydir <dir>       keystore directory (default ~/.certify/keys)")
	fmt.Fprintln(w, "  --crosscheck <url>   external fingerprint service; empty disables")
}

// connFlags carry the endpoint configuration shared by every networked
// subcommand.
type connFlags struct {
	ledger     string
	ledgerAlt  string
	store      string
	key        string
	keyDir     string
	crosscheck string
}

func (c *connFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.ledger, "ledger", "127.0.0.1:7799", "registry node address, or mem:<snapshot.json>")
	fs.StringVar(&c.ledgerAlt, "ledger-alt", "", "alternate registry node for read failover")
	fs.StringVar(&c.store, "store", "localfs:"+defaultBlobDir(), "blob store backend spec")
	fs.StringVar(&c.key, "key", "", "signing identity name")
	fs.StringVar(&c.keyDir, "keydir", "", "keystore directory")
	fs.StringVar(&c.crosscheck, "crosscheck", "", "external fingerprint service URL (empty disables)")
}

func defaultBlobDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./blobs"
	}
	return filepath.Join(home, ".certify", "blobs")
}

func (c *connFlags) signer(errOut io.Writer, required bool) (identity.Signer, int) {
	if c.key == "" {
		if required {
			fmt.Fprintln(errOut, "missing --key (create one with 'certify key init')")
			return nil, 2
		}
		return nil, 0
	}
	ks, err := identity.OpenKeyStore(c.keyDir)
	if err != nil {
		fmt.Fprintf(errOut, "keystore: %v\n", err)
		return nil, 1
	}
	s, err := ks.Load(c.key)
	if err != nil {
		fmt.Fprintf(errOut, "load key: %v\n", err)
		return nil, 1
	}
	return s, 0
}

// openRegistry connects the primary (and optional alternate) registry
// endpoint. "mem:<path>" serves a local snapshot-backed registry for
// offline use; writes land in the snapshot file directly.
func (c *connFlags) openRegistry(errOut io.Writer, signer identity.Signer) (ledger.Registry, func(), int) {
	open := func(target string) (ledger.Registry, func(), error) {
		if path, ok := strings.CutPrefix(target, "mem:"); ok {
			return openMemRegistry(path, signer)
		}
		cl, err := grpcledger.Dial(target, signer, grpcledger.DialOptions{Timeout: 5 * time.Second})
		if err != nil {
			return nil, nil, err
		}
		cl.Timeout = 8 * time.Second
		return cl, func() { _ = cl.Close() }, nil
	}

	primary, closePrimary, err := open(c.ledger)
	if err != nil {
		fmt.Fprintf(errOut, "ledger: %v\n", err)
		return nil, nil, 1
	}
	if c.ledgerAlt == "" {
		return primary, closePrimary, 0
	}

	alternate, closeAlt, err := open(c.ledgerAlt)
	if err != nil {
		closePrimary()
		fmt.Fprintf(errOut, "ledger-alt: %v\n", err)
		return nil, nil, 1
	}
	closeAll := func() {
		closeAlt()
		closePrimary()
	}
	return &ledger.Failover{Primary: primary, Alternate: alternate}, closeAll, 0
}

func openMemRegistry(path string, signer identity.Signer) (ledger.Registry, func(), error) {
	var contract *memledger.Contract
	if _, err := os.Stat(path); err == nil {
		contract, err = memledger.Load(path)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if signer == nil {
			return nil, nil, fmt.Errorf("new snapshot %s needs --key to establish the owner", path)
		}
		contract = memledger.New(signer.Address())
	}

	caller := ""
	if signer != nil {
		caller = signer.Address()
	}
	session := &memledger.Session{Contract: contract, Caller: caller}
	save := func() { _ = contract.Save(path) }
	return &snapshotting{Registry: session, save: save}, func() { save() }, nil
}

// snapshotting persists the mem registry after each successful write.
type snapshotting struct {
	ledger.Registry
	save func()
}

func (s *snapshotting) IssueDocument(ctx context.Context, docHash, uri string) (ledger.TxReceipt, error) {
	rcpt, err := s.Registry.IssueDocument(ctx, docHash, uri)
	if err == nil {
		s.save()
	}
	return rcpt, err
}

func (s *snapshotting) RevokeDocument(ctx context.Context, docHash string) (ledger.TxReceipt, error) {
	rcpt, err := s.Registry.RevokeDocument(ctx, docHash)
	if err == nil {
		s.save()
	}
	return rcpt, err
}

func (s *snapshotting) AddInstitution(ctx context.Context, address, uri string) (ledger.TxReceipt, error) {
	rcpt, err := s.Registry.AddInstitution(ctx, address, uri)
	if err == nil {
		s.save()
	}
	return rcpt, err
}

func (s *snapshotting) RemoveInstitution(ctx context.Context, address string) (ledger.TxReceipt, error) {
	rcpt, err := s.Registry.RemoveInstitution(ctx, address)
	if err == nil {
		s.save()
	}
	return rcpt, err
}

func (c *connFlags) openStore(errOut io.Writer) (*metastore.Store, func(), int) {
	openers := map[string]storage.BackendOpener{
		"localfs": func(arg string) (storage.CAS, func() error, error) {
			s, err := localfs.New(arg)
			return s, nil, err
		},
		"ipfs": func(arg string) (storage.CAS, func() error, error) {
			return ipfs.New(ipfs.Options{Bin: arg}), nil, nil
		},
		"grpc": func(arg string) (storage.CAS, func() error, error) {
			cl, err := grpcstore.Dial(arg, grpcstore.DialOptions{Timeout: 5 * time.Second})
			if err != nil {
				return nil, nil, err
			}
			cl.Timeout = 8 * time.Second
			return cl, cl.Close, nil
		},
	}
	cas, closeFn, err := storage.Open(c.store, openers)
	if err != nil {
		fmt.Fprintf(errOut, "store: %v\n", err)
		return nil, nil, 1
	}
	closer := func() {}
	if closeFn != nil {
		closer = func() { _ = closeFn() }
	}
	return metastore.New(cas), closer, 0
}

func (c *connFlags) crossCheckClient() *crosscheck.Client {
	if c.crosscheck == "" {
		return nil
	}
	return crosscheck.New(c.crosscheck, 15*time.Second)
}

// fieldFlags collect the credential identity and descriptive fields.
type fieldFlags struct {
	fields credential.Fields
}

func (f *fieldFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.fields.RecipientName, "name", "", "recipient full name")
	fs.StringVar(&f.fields.RecipientID, "id", "", "recipient identifier")
	fs.StringVar(&f.fields.DocumentType, "type", "", "document type")
	fs.StringVar(&f.fields.RecipientEmail, "email", "", "recipient email (off-chain metadata)")
	fs.StringVar(&f.fields.RecipientWallet, "wallet", "", "recipient wallet address (off-chain metadata)")
	fs.StringVar(&f.fields.DocumentID, "doc-id", "", "document identifier (off-chain metadata)")
	fs.StringVar(&f.fields.Description, "description", "", "document description (off-chain metadata)")
}

func cmdFingerprint(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fingerprint", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var ff fieldFlags
	ff.register(fs)
	file := fs.String("file", "", "derive fields from a document instead of flags")
	showRecord := fs.Bool("record", false, "also print the canonical record")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fields := ff.fields
	if *file != "" {
		content, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", *file, err)
			return 1
		}
		a, err := analyzer.Heuristic{}.Analyze(context.Background(), *file, content)
		if err != nil {
			fmt.Fprintf(errOut, "analyze: %v\n", err)
			return 1
		}
		// Explicit flags override extraction.
		merged := a.Fields
		if fields.RecipientName != "" {
			merged.RecipientName = fields.RecipientName
		}
		if fields.RecipientID != "" {
			merged.RecipientID = fields.RecipientID
		}
		if fields.DocumentType != "" {
			merged.DocumentType = fields.DocumentType
		}
		fields = merged
	}

	record := credential.Canonicalize(fields)
	if *showRecord {
		fmt.Fprintf(errOut, "record: %s\n", record)
	}
	fmt.Fprintln(out, credential.Fingerprint(record))
	return 0
}

func cmdAttest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("attest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var conn connFlags
	var ff fieldFlags
	conn.register(fs)
	ff.register(fs)
	file := fs.String("file", "", "document to attest")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		fmt.Fprintln(errOut, "missing --file")
		return 2
	}
	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", *file, err)
		return 1
	}

	signer, code := conn.signer(errOut, true)
	if code != 0 {
		return code
	}
	reg, closeReg, code := conn.openRegistry(errOut, signer)
	if code != 0 {
		return code
	}
	defer closeReg()
	store, closeStore, code := conn.openStore(errOut)
	if code != 0 {
		return code
	}
	defer closeStore()

	attester := &workflow.Attester{
		Analyzer:   analyzer.Heuristic{},
		Store:      store,
		Ledger:     reg,
		CrossCheck: conn.crossCheckClient(),
		OnState: func(s workflow.State) {
			fmt.Fprintf(errOut, "state: %s\n", s)
		},
	}

	res, err := attester.Attest(context.Background(), *file, content, ff.fields)
	if err != nil {
		fmt.Fprintf(errOut, "attest: %v\n", err)
		return 1
	}
	if res.LocalFingerprint && conn.crosscheck != "" {
		fmt.Fprintln(errOut, "note: cross-check unreachable, fingerprint computed locally")
	}
	fmt.Fprintf(out, "fingerprint: %s\n", res.Fingerprint)
	fmt.Fprintf(out, "metadata:    %s\n", res.MetadataURI)
	fmt.Fprintf(out, "tx:          %s\n", res.TxHash)
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var conn connFlags
	conn.register(fs)
	file := fs.String("file", "", "document to verify")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		fmt.Fprintln(errOut, "missing --file")
		return 2
	}
	content, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", *file, err)
		return 1
	}

	signer, code := conn.signer(errOut, false)
	if code != 0 {
		return code
	}
	reg, closeReg, code := conn.openRegistry(errOut, signer)
	if code != 0 {
		return code
	}
	defer closeReg()
	store, closeStore, code := conn.openStore(errOut)
	if code != 0 {
		return code
	}
	defer closeStore()

	verifier := &workflow.Verifier{
		Analyzer:   analyzer.Heuristic{},
		Store:      store,
		Ledger:     reg,
		CrossCheck: conn.crossCheckClient(),
	}

	verdict, err := verifier.Verify(context.Background(), *file, content)
	if err != nil {
		fmt.Fprintf(errOut, "verify: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "outcome:     %s\n", verdict.Outcome)
	fmt.Fprintf(out, "fingerprint: %s\n", verdict.Fingerprint)
	if verdict.Similarity != "" {
		fmt.Fprintf(out, "similarity:  %s\n", verdict.Similarity)
	}
	if verdict.OnChain.Exists() {
		fmt.Fprintf(out, "issuer:      %s\n", verdict.OnChain.Issuer)
		fmt.Fprintf(out, "issued at:   %s\n", verdict.OnChain.IssuedAt.Format(time.RFC3339))
		fmt.Fprintf(out, "revoked:     %v\n", verdict.OnChain.Revoked)
	}
	if verdict.Metadata != nil {
		fmt.Fprintf(out, "recipient:   %s (%s)\n", verdict.Metadata.Recipient.FullName, verdict.Metadata.Recipient.ID)
		fmt.Fprintf(out, "document:    %s\n", verdict.Metadata.Document.Type)
	}
	if verdict.Institution != nil {
		fmt.Fprintf(out, "institution: %s %s\n", verdict.Institution.Name, verdict.Institution.Website)
	}
	if verdict.Degraded {
		fmt.Fprintln(errOut, "note: partial result (a best-effort stage was skipped or fell back)")
	}
	if verdict.Outcome == workflow.OutcomeUnknown {
		return 1
	}
	return 0
}

func cmdRevoke(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("revoke", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var conn connFlags
	conn.register(fs)
	hash := fs.String("hash", "", "fingerprint to revoke")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *hash == "" {
		fmt.Fprintln(errOut, "missing --hash")
		return 2
	}

	signer, code := conn.signer(errOut, true)
	if code != 0 {
		return code
	}
	reg, closeReg, code := conn.openRegistry(errOut, signer)
	if code != 0 {
		return code
	}
	defer closeReg()

	attester := &workflow.Attester{Ledger: reg}
	rcpt, err := attester.Revoke(context.Background(), *hash)
	if err != nil {
		if err == workflow.ErrAlreadyRevoked {
			fmt.Fprintln(out, "already revoked")
			return 0
		}
		fmt.Fprintf(errOut, "revoke: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "tx: %s\n", rcpt.TxHash)
	return 0
}

func cmdList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var conn connFlags
	conn.register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	signer, code := conn.signer(errOut, false)
	if code != 0 {
		return code
	}
	reg, closeReg, code := conn.openRegistry(errOut, signer)
	if code != 0 {
		return code
	}
	defer closeReg()

	docs, err := workflow.ListAttestations(context.Background(), reg)
	if err != nil {
		fmt.Fprintf(errOut, "list: %v\n", err)
		return 1
	}
	for _, d := range docs {
		status := "active"
		if d.Revoked {
			status = "revoked"
		}
		fmt.Fprintf(out, "%s  %s  %s  %s  %s\n",
			d.DocHash, d.Issuer, d.IssuedAt.Format(time.RFC3339), status, d.MetadataURI)
	}
	return 0
}

func cmdInstitution(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: certify institution <add|remove|show> ...")
		return 2
	}
	switch args[0] {
	case "add":
		return cmdInstitutionAdd(args[1:], out, errOut)
	case "remove":
		return cmdInstitutionRemove(args[1:], out, errOut)
	case "show":
		return cmdInstitutionShow(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown institution subcommand: %s\n", args[0])
		return 2
	}
}

func cmdInstitutionAdd(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("institution add", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var conn connFlags
	conn.register(fs)
	address := fs.String("address", "", "institution ledger address")
	instName := fs.String("inst-name", "", "institution display name")
	website := fs.String("website", "", "institution website")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *address == "" {
		fmt.Fprintln(errOut, "missing --address")
		return 2
	}
	if *instName == "" {
		fmt.Fprintln(errOut, "missing --inst-name")
		return 2
	}

	signer, code := conn.signer(errOut, true)
	if code != 0 {
		return code
	}
	reg, closeReg, code := conn.openRegistry(errOut, signer)
	if code != 0 {
		return code
	}
	defer closeReg()
	store, closeStore, code := conn.openStore(errOut)
	if code != 0 {
		return code
	}
	defer closeStore()

	cidStr, err := store.PutInstitution(credential.InstitutionMetadata{
		Name:    *instName,
		Website: *website,
	})
	if err != nil {
		fmt.Fprintf(errOut, "store institution metadata: %v\n", err)
		return 1
	}

	rcpt, err := reg.AddInstitution(context.Background(), *address, metastore.URIFor(cidStr))
	if err != nil {
		fmt.Fprintf(errOut, "add institution: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "tx: %s\n", rcpt.TxHash)
	return 0
}

func cmdInstitutionRemove(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("institution remove", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var conn connFlags
	conn.register(fs)
	address := fs.String("address", "", "institution ledger address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *address == "" {
		fmt.Fprintln(errOut, "missing --address")
		return 2
	}

	signer, code := conn.signer(errOut, true)
	if code != 0 {
		return code
	}
	reg, closeReg, code := conn.openRegistry(errOut, signer)
	if code != 0 {
		return code
	}
	defer closeReg()

	rcpt, err := reg.RemoveInstitution(context.Background(), *address)
	if err != nil {
		fmt.Fprintf(errOut, "remove institution: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "tx: %s\n", rcpt.TxHash)
	return 0
}

func cmdInstitutionShow(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("institution show", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var conn connFlags
	conn.register(fs)
	address := fs.String("address", "", "institution ledger address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *address == "" {
		fmt.Fprintln(errOut, "missing --address")
		return 2
	}

	signer, code := conn.signer(errOut, false)
	if code != 0 {
		return code
	}
	reg, closeReg, code := conn.openRegistry(errOut, signer)
	if code != 0 {
		return code
	}
	defer closeReg()
	store, closeStore, code := conn.openStore(errOut)
	if code != 0 {
		return code
	}
	defer closeStore()

	inst, docs, err := reg.InstitutionDocuments(context.Background(), *address)
	if err != nil {
		fmt.Fprintf(errOut, "institution: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "address: %s\n", inst.Address)
	if cidStr, err := metastore.CIDFromURI(inst.MetadataURI); err == nil {
		if meta, err := store.GetInstitution(cidStr); err == nil {
			fmt.Fprintf(out, "name:    %s\n", meta.Name)
			if meta.Website != "" {
				fmt.Fprintf(out, "website: %s\n", meta.Website)
			}
		}
	}
	fmt.Fprintf(out, "issued:  %d\n", len(docs))
	for _, d := range docs {
		status := "active"
		if d.Revoked {
			status = "revoked"
		}
		fmt.Fprintf(out, "  %s  %s  %s\n", d.DocHash, d.IssuedAt.Format(time.RFC3339), status)
	}
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: certify key <init|list> ...")
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "identity name")
	seedHex := fs.String("seed-hex", "", "ed25519 seed as 64 hex chars (for reproducible setups)")
	keyDir := fs.String("keydir", "", "keystore directory")
	force := fs.Bool("force", false, "overwrite an existing identity")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}

	var seed []byte
	if *seedHex != "" {
		var err error
		seed, err = identity.ParseSeedHex(*seedHex)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", err)
			return 2
		}
	}

	ks, err := identity.OpenKeyStore(*keyDir)
	if err != nil {
		fmt.Fprintf(errOut, "keystore: %v\n", err)
		return 1
	}
	signer, err := ks.Create(*name, seed, *force)
	if err != nil {
		fmt.Fprintf(errOut, "create key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "address: %s\n", signer.Address())
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	keyDir := fs.String("keydir", "", "keystore directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ks, err := identity.OpenKeyStore(*keyDir)
	if err != nil {
		fmt.Fprintf(errOut, "keystore: %v\n", err)
		return 1
	}
	names, err := ks.List()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, name := range names {
		signer, err := ks.Load(name)
		if err != nil {
			fmt.Fprintf(out, "%s\t(unreadable: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", name, signer.Address())
	}
	return 0
}
