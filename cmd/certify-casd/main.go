// certify-casd serves a content-addressed blob store over gRPC. Issuers
// and verifiers point their -store flag at it to share metadata blobs.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"certifychain.io/certify/storage"
	"certifychain.io/certify/storage/grpcstore"
	"certifychain.io/certify/storage/ipfs"
	"certifychain.io/certify/storage/localfs"
)

func main() {
	fs := flag.NewFlagSet("certify-casd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7788", "listen address")
	store := fs.String("store", "localfs:"+defaultBlobDir(), "backend spec (localfs:<dir>, ipfs, or a comma-separated chain)")
	_ = fs.Parse(os.Args[1:])

	openers := map[string]storage.BackendOpener{
		"localfs": func(arg string) (storage.CAS, func() error, error) {
			s, err := localfs.New(arg)
			return s, nil, err
		},
		"ipfs": func(arg string) (storage.CAS, func() error, error) {
			return ipfs.New(ipfs.Options{Bin: arg}), nil, nil
		},
	}

	cas, closeFn, err := storage.Open(*store, openers)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcstore.RegisterBlobStoreServer(s, &grpcstore.Server{CAS: cas})

	fmt.Fprintf(os.Stderr, "certify-casd listening on %s (store=%s)\n", lis.Addr().String(), *store)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultBlobDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./blobs"
	}
	return home + "/.certify/blobs"
}
