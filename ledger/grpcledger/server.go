package grpcledger

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"certifychain.io/certify/ledger/memledger"
)

// Server serves a memledger contract over the registry gRPC service.
// Write calls are attributed to the address derived from their signature,
// never to transport identity.
type Server struct {
	UnimplementedRegistryServer
	Contract *memledger.Contract

	// SnapshotPath, when set, persists the contract after each write.
	SnapshotPath string
}

var _ RegistryServer = (*Server)(nil)

func NewServer(contract *memledger.Contract) *Server {
	return &Server{Contract: contract}
}

func (s *Server) persist() error {
	if s.SnapshotPath == "" {
		return nil
	}
	return s.Contract.Save(s.SnapshotPath)
}

func receipt(txHash string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"txHash": structpb.NewStringValue(txHash),
	}}
}

func (s *Server) Issue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	docHash := getString(req, "docHash")
	metadataURI := getString(req, "metadataUri")
	caller, err := authenticate(req, "Issue", docHash, metadataURI)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	rcpt, err := s.Contract.Issue(caller, docHash, metadataURI)
	if err != nil {
		return nil, mapRegistryErr(err)
	}
	if err := s.persist(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return receipt(rcpt.TxHash), nil
}

func (s *Server) Revoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	docHash := getString(req, "docHash")
	caller, err := authenticate(req, "Revoke", docHash)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	rcpt, err := s.Contract.Revoke(caller, docHash)
	if err != nil {
		return nil, mapRegistryErr(err)
	}
	if err := s.persist(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return receipt(rcpt.TxHash), nil
}

func (s *Server) AddInstitution(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	address := getString(req, "address")
	metadataURI := getString(req, "metadataUri")
	caller, err := authenticate(req, "AddInstitution", address, metadataURI)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	rcpt, err := s.Contract.AddInstitution(caller, address, metadataURI)
	if err != nil {
		return nil, mapRegistryErr(err)
	}
	if err := s.persist(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return receipt(rcpt.TxHash), nil
}

func (s *Server) RemoveInstitution(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	address := getString(req, "address")
	caller, err := authenticate(req, "RemoveInstitution", address)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	rcpt, err := s.Contract.RemoveInstitution(caller, address)
	if err != nil {
		return nil, mapRegistryErr(err)
	}
	if err := s.persist(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return receipt(rcpt.TxHash), nil
}

func (s *Server) Verify(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	v := s.Contract.Verify(req.GetValue())
	out := &structpb.Struct{Fields: map[string]*structpb.Value{
		"valid":       structpb.NewBoolValue(v.Valid),
		"revoked":     structpb.NewBoolValue(v.Revoked),
		"issuer":      structpb.NewStringValue(v.Issuer),
		"metadataUri": structpb.NewStringValue(v.MetadataURI),
	}}
	if v.Exists() {
		out.Fields["issuedAt"] = structpb.NewStringValue(v.IssuedAt.UTC().Format(time.RFC3339Nano))
	}
	return out, nil
}

func (s *Server) List(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	docs := s.Contract.Documents()
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(docs))}
	for _, d := range docs {
		out.Values = append(out.Values, documentStruct(d))
	}
	return out, nil
}

func (s *Server) Institution(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	inst, docs, err := s.Contract.Institution(req.GetValue())
	if err != nil {
		return nil, mapRegistryErr(err)
	}
	list := make([]*structpb.Value, 0, len(docs))
	for _, d := range docs {
		list = append(list, documentStruct(d))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"address":     structpb.NewStringValue(inst.Address),
		"metadataUri": structpb.NewStringValue(inst.MetadataURI),
		"documents":   structpb.NewListValue(&structpb.ListValue{Values: list}),
	}}, nil
}
