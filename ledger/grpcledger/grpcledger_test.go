package grpcledger

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"certifychain.io/certify/identity"
	"certifychain.io/certify/ledger"
	"certifychain.io/certify/ledger/memledger"
)

const testHash = "0x852b18bfe1ff634a2296ae3eaa61f58c31430a13e6e009ad98b8d11a8dc57618"

func testSigner(t *testing.T, fill byte) *identity.Ed25519Signer {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = fill
	}
	s, err := identity.NewEd25519Signer(seed)
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	return s
}

type testNode struct {
	contract *memledger.Contract
	owner    *identity.Ed25519Signer
	dial     func(t *testing.T, signer identity.Signer) *Client
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()

	owner := testSigner(t, 0x11)
	contract := memledger.New(owner.Address())

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterRegistryServer(srv, NewServer(contract))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dial := func(t *testing.T, signer identity.Signer) *Client {
		t.Helper()
		dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
		cc, err := grpc.DialContext(
			context.Background(),
			"bufnet",
			grpc.WithContextDialer(dialer),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			t.Fatalf("DialContext: %v", err)
		}
		t.Cleanup(func() { _ = cc.Close() })
		c := NewClient(cc, signer)
		c.Timeout = 2 * time.Second
		return c
	}
	return &testNode{contract: contract, owner: owner, dial: dial}
}

func TestRegistry_IssueVerifyRevokeOverWire(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	issuer := testSigner(t, 0x22)
	ownerClient := node.dial(t, node.owner)
	issuerClient := node.dial(t, issuer)

	if _, err := ownerClient.AddInstitution(ctx, issuer.Address(), "store://inst"); err != nil {
		t.Fatalf("AddInstitution: %v", err)
	}

	rcpt, err := issuerClient.IssueDocument(ctx, testHash, "store://meta")
	if err != nil {
		t.Fatalf("IssueDocument: %v", err)
	}
	if rcpt.TxHash == "" {
		t.Fatalf("empty tx hash")
	}

	v, err := issuerClient.VerifyDocument(ctx, testHash)
	if err != nil {
		t.Fatalf("VerifyDocument: %v", err)
	}
	if !v.Valid || v.Revoked || v.Issuer != issuer.Address() || v.MetadataURI != "store://meta" {
		t.Fatalf("verification = %+v", v)
	}
	if v.IssuedAt.IsZero() {
		t.Fatalf("issuedAt not carried over the wire")
	}

	if _, err := issuerClient.RevokeDocument(ctx, testHash); err != nil {
		t.Fatalf("RevokeDocument: %v", err)
	}
	v, err = issuerClient.VerifyDocument(ctx, testHash)
	if err != nil {
		t.Fatalf("VerifyDocument after revoke: %v", err)
	}
	// Over the wire too, revocation clears valid while issuer and
	// timestamp stay readable.
	if v.Valid || !v.Revoked {
		t.Fatalf("verification after revoke = %+v", v)
	}
	if v.Issuer != issuer.Address() || v.IssuedAt.IsZero() {
		t.Fatalf("revoked record lost issuer state: %+v", v)
	}
}

func TestRegistry_ErrorTaxonomySurvivesWire(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	issuer := testSigner(t, 0x22)
	stranger := testSigner(t, 0x33)
	ownerClient := node.dial(t, node.owner)
	issuerClient := node.dial(t, issuer)
	strangerClient := node.dial(t, stranger)

	// Unregistered caller cannot issue.
	if _, err := strangerClient.IssueDocument(ctx, testHash, ""); !errors.Is(err, ledger.ErrNotInstitution) {
		t.Fatalf("unregistered issue: err = %v", err)
	}

	if _, err := ownerClient.AddInstitution(ctx, issuer.Address(), ""); err != nil {
		t.Fatalf("AddInstitution: %v", err)
	}
	if _, err := issuerClient.IssueDocument(ctx, testHash, ""); err != nil {
		t.Fatalf("IssueDocument: %v", err)
	}

	if _, err := issuerClient.IssueDocument(ctx, testHash, ""); !errors.Is(err, ledger.ErrAlreadyExists) {
		t.Fatalf("duplicate issue: err = %v", err)
	}

	// Non-issuer revoke needs the stranger to be registered first, so the
	// rejection exercised is the issuer check rather than the institution one.
	if _, err := ownerClient.AddInstitution(ctx, stranger.Address(), ""); err != nil {
		t.Fatalf("AddInstitution: %v", err)
	}
	if _, err := strangerClient.RevokeDocument(ctx, testHash); !errors.Is(err, ledger.ErrNotIssuer) {
		t.Fatalf("foreign revoke: err = %v", err)
	}

	// Owner-only registration and removal.
	if _, err := issuerClient.AddInstitution(ctx, stranger.Address(), ""); !errors.Is(err, ledger.ErrNotOwner) {
		t.Fatalf("non-owner AddInstitution: err = %v", err)
	}
	if _, err := issuerClient.RemoveInstitution(ctx, stranger.Address()); !errors.Is(err, ledger.ErrNotOwner) {
		t.Fatalf("non-owner RemoveInstitution: err = %v", err)
	}

	// Revert reasons cross the wire verbatim.
	var revert *ledger.RevertError
	_, err := issuerClient.RevokeDocument(ctx, "0xunknown")
	if !errors.As(err, &revert) {
		t.Fatalf("revoke of unknown hash: err = %v", err)
	}
	if revert.Reason != "Document does not exist" {
		t.Fatalf("revert reason = %q", revert.Reason)
	}
}

func TestRegistry_TamperedWriteRejected(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	issuer := testSigner(t, 0x22)
	client := node.dial(t, node.owner)
	if _, err := client.AddInstitution(ctx, issuer.Address(), ""); err != nil {
		t.Fatalf("AddInstitution: %v", err)
	}

	// Sign for one hash, submit another: the node must refuse.
	req, err := signedRequest(issuer, "Issue", map[string]*structpb.Value{
		"docHash":     structpb.NewStringValue("0xother"),
		"metadataUri": structpb.NewStringValue(""),
	}, testHash, "")
	if err != nil {
		t.Fatalf("signedRequest: %v", err)
	}
	srv := NewServer(node.contract)
	if _, err := srv.Issue(ctx, req); err == nil {
		t.Fatalf("tampered request accepted")
	}
}

func TestRegistry_ListAndInstitution(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	issuer := testSigner(t, 0x22)
	ownerClient := node.dial(t, node.owner)
	issuerClient := node.dial(t, issuer)

	if _, err := ownerClient.AddInstitution(ctx, issuer.Address(), "store://inst"); err != nil {
		t.Fatalf("AddInstitution: %v", err)
	}
	hashes := []string{"0xaaa1", "0xaaa2", "0xaaa3"}
	for _, h := range hashes {
		if _, err := issuerClient.IssueDocument(ctx, h, "store://"+h); err != nil {
			t.Fatalf("IssueDocument(%s): %v", h, err)
		}
	}

	docs, err := issuerClient.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != len(hashes) {
		t.Fatalf("got %d documents", len(docs))
	}
	for i, d := range docs {
		if d.DocHash != hashes[i] {
			t.Fatalf("docs[%d] = %q, want %q", i, d.DocHash, hashes[i])
		}
	}

	inst, instDocs, err := issuerClient.InstitutionDocuments(ctx, issuer.Address())
	if err != nil {
		t.Fatalf("InstitutionDocuments: %v", err)
	}
	if inst.Address != issuer.Address() || inst.MetadataURI != "store://inst" {
		t.Fatalf("institution = %+v", inst)
	}
	if len(instDocs) != len(hashes) {
		t.Fatalf("institution docs = %d", len(instDocs))
	}

	if _, _, err := issuerClient.InstitutionDocuments(ctx, "0xnobody"); !errors.Is(err, ledger.ErrNotInstitution) {
		t.Fatalf("unknown institution: err = %v", err)
	}
}

func TestRegistry_RemoveInstitutionOverWire(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	issuer := testSigner(t, 0x22)
	ownerClient := node.dial(t, node.owner)
	issuerClient := node.dial(t, issuer)

	if _, err := ownerClient.AddInstitution(ctx, issuer.Address(), ""); err != nil {
		t.Fatalf("AddInstitution: %v", err)
	}
	if _, err := issuerClient.IssueDocument(ctx, testHash, ""); err != nil {
		t.Fatalf("IssueDocument: %v", err)
	}

	rcpt, err := ownerClient.RemoveInstitution(ctx, issuer.Address())
	if err != nil {
		t.Fatalf("RemoveInstitution: %v", err)
	}
	if rcpt.TxHash == "" {
		t.Fatalf("empty tx hash")
	}

	if _, err := issuerClient.IssueDocument(ctx, "0xafter", ""); !errors.Is(err, ledger.ErrNotInstitution) {
		t.Fatalf("removed institution issued: err = %v", err)
	}
	if _, err := ownerClient.RemoveInstitution(ctx, issuer.Address()); !errors.Is(err, ledger.ErrNotInstitution) {
		t.Fatalf("repeat removal: err = %v", err)
	}
	// Anchored documents survive the removal.
	if v, err := issuerClient.VerifyDocument(ctx, testHash); err != nil || !v.Valid {
		t.Fatalf("document lost after removal: %+v, %v", v, err)
	}
}

func TestErrorMapping_RejectionsRoundTrip(t *testing.T) {
	rejections := []error{
		ledger.ErrAlreadyExists,
		ledger.ErrNotIssuer,
		ledger.ErrNotOwner,
		ledger.ErrNotInstitution,
	}
	for _, want := range rejections {
		got := mapRPC(mapRegistryErr(want))
		if !errors.Is(got, want) {
			t.Fatalf("round trip of %v produced %v", want, got)
		}
	}

	var revert *ledger.RevertError
	got := mapRPC(mapRegistryErr(&ledger.RevertError{Reason: "Document does not exist"}))
	if !errors.As(got, &revert) || revert.Reason != "Document does not exist" {
		t.Fatalf("revert round trip produced %v", got)
	}
}

func TestRegistry_ReadOnlyClient(t *testing.T) {
	node := newTestNode(t)
	ctx := context.Background()

	reader := node.dial(t, nil)
	if _, err := reader.VerifyDocument(ctx, testHash); err != nil {
		t.Fatalf("read with nil signer: %v", err)
	}
	if _, err := reader.IssueDocument(ctx, testHash, ""); err == nil {
		t.Fatalf("write with nil signer accepted")
	}
}
