// certify-ledgerd runs a document registry node. State lives in memory
// with an optional JSON snapshot rewritten after every accepted write, so
// a restart resumes where the node left off.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"certifychain.io/certify/ledger/grpcledger"
	"certifychain.io/certify/ledger/memledger"
)

func main() {
	fs := flag.NewFlagSet("certify-ledgerd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7799", "listen address")
	owner := fs.String("owner", "", "registry owner address (required unless -snapshot exists)")
	snapshot := fs.String("snapshot", "", "snapshot file path; loaded at start, rewritten after each write")
	_ = fs.Parse(os.Args[1:])

	contract, err := openContract(*owner, *snapshot)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	srv := grpcledger.NewServer(contract)
	srv.SnapshotPath = *snapshot

	s := grpc.NewServer()
	grpcledger.RegisterRegistryServer(s, srv)

	fmt.Fprintf(os.Stderr, "certify-ledgerd listening on %s (owner=%s)\n", lis.Addr().String(), contract.Owner())
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openContract(owner, snapshot string) (*memledger.Contract, error) {
	if snapshot != "" {
		if _, err := os.Stat(snapshot); err == nil {
			return memledger.Load(snapshot)
		}
	}
	if owner == "" {
		return nil, fmt.Errorf("missing -owner (no snapshot to resume from)")
	}
	return memledger.New(owner), nil
}
