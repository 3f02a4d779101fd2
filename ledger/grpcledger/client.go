package grpcledger

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"certifychain.io/certify/identity"
	"certifychain.io/certify/ledger"
)

// Client implements ledger.Registry against a remote registry node.
// Signer is required for writes; read-only clients may leave it nil.
type Client struct {
	cc     *grpc.ClientConn
	client RegistryClient
	signer identity.Signer

	// Timeout bounds each RPC beyond any deadline already on the caller's
	// context. Zero means the caller's context alone governs.
	Timeout time.Duration
}

var _ ledger.Registry = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration
}

func Dial(target string, signer identity.Signer, opts DialOptions) (*Client, error) {
	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cc, err := grpc.DialContext(ctx, target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}
	return NewClient(cc, signer), nil
}

// NewClient wraps an established connection. Used directly in tests with
// bufconn.
func NewClient(cc *grpc.ClientConn, signer identity.Signer) *Client {
	return &Client{cc: cc, client: NewRegistryClient(cc), signer: signer}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

func (c *Client) IssueDocument(ctx context.Context, docHash, metadataURI string) (ledger.TxReceipt, error) {
	if c.signer == nil {
		return ledger.TxReceipt{}, ledger.ErrNotInstitution
	}
	req, err := signedRequest(c.signer, "Issue", map[string]*structpb.Value{
		"docHash":     structpb.NewStringValue(docHash),
		"metadataUri": structpb.NewStringValue(metadataURI),
	}, docHash, metadataURI)
	if err != nil {
		return ledger.TxReceipt{}, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	reply, err := c.client.Issue(ctx, req)
	if err != nil {
		return ledger.TxReceipt{}, mapRPC(err)
	}
	return ledger.TxReceipt{TxHash: getString(reply, "txHash")}, nil
}

func (c *Client) RevokeDocument(ctx context.Context, docHash string) (ledger.TxReceipt, error) {
	if c.signer == nil {
		return ledger.TxReceipt{}, ledger.ErrNotIssuer
	}
	req, err := signedRequest(c.signer, "Revoke", map[string]*structpb.Value{
		"docHash": structpb.NewStringValue(docHash),
	}, docHash)
	if err != nil {
		return ledger.TxReceipt{}, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	reply, err := c.client.Revoke(ctx, req)
	if err != nil {
		return ledger.TxReceipt{}, mapRPC(err)
	}
	return ledger.TxReceipt{TxHash: getString(reply, "txHash")}, nil
}

func (c *Client) AddInstitution(ctx context.Context, address, metadataURI string) (ledger.TxReceipt, error) {
	if c.signer == nil {
		return ledger.TxReceipt{}, ledger.ErrNotOwner
	}
	req, err := signedRequest(c.signer, "AddInstitution", map[string]*structpb.Value{
		"address":     structpb.NewStringValue(address),
		"metadataUri": structpb.NewStringValue(metadataURI),
	}, address, metadataURI)
	if err != nil {
		return ledger.TxReceipt{}, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	reply, err := c.client.AddInstitution(ctx, req)
	if err != nil {
		return ledger.TxReceipt{}, mapRPC(err)
	}
	return ledger.TxReceipt{TxHash: getString(reply, "txHash")}, nil
}

func (c *Client) RemoveInstitution(ctx context.Context, address string) (ledger.TxReceipt, error) {
	if c.signer == nil {
		return ledger.TxReceipt{}, ledger.ErrNotOwner
	}
	req, err := signedRequest(c.signer, "RemoveInstitution", map[string]*structpb.Value{
		"address": structpb.NewStringValue(address),
	}, address)
	if err != nil {
		return ledger.TxReceipt{}, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	reply, err := c.client.RemoveInstitution(ctx, req)
	if err != nil {
		return ledger.TxReceipt{}, mapRPC(err)
	}
	return ledger.TxReceipt{TxHash: getString(reply, "txHash")}, nil
}

func (c *Client) VerifyDocument(ctx context.Context, docHash string) (ledger.Verification, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	reply, err := c.client.Verify(ctx, wrapperspb.String(docHash))
	if err != nil {
		return ledger.Verification{}, mapRPC(err)
	}
	issuedAt, err := parseTime(getString(reply, "issuedAt"))
	if err != nil {
		return ledger.Verification{}, err
	}
	return ledger.Verification{
		Valid:       getBool(reply, "valid"),
		Issuer:      getString(reply, "issuer"),
		IssuedAt:    issuedAt,
		Revoked:     getBool(reply, "revoked"),
		MetadataURI: getString(reply, "metadataUri"),
	}, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]ledger.Document, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	reply, err := c.client.List(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapRPC(err)
	}
	docs := make([]ledger.Document, 0, len(reply.GetValues()))
	for _, v := range reply.GetValues() {
		doc, err := documentFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Client) InstitutionDocuments(ctx context.Context, address string) (ledger.Institution, []ledger.Document, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	reply, err := c.client.Institution(ctx, wrapperspb.String(address))
	if err != nil {
		return ledger.Institution{}, nil, mapRPC(err)
	}
	inst := ledger.Institution{
		Address:     getString(reply, "address"),
		MetadataURI: getString(reply, "metadataUri"),
	}
	values := reply.GetFields()["documents"].GetListValue().GetValues()
	docs := make([]ledger.Document, 0, len(values))
	for _, v := range values {
		doc, err := documentFromStruct(v.GetStructValue())
		if err != nil {
			return ledger.Institution{}, nil, err
		}
		docs = append(docs, doc)
	}
	return inst, docs, nil
}
