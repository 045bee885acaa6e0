package writers

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// ConfigCodeCTRLInterface is what a CollectorWriter needs to dial. Request
// deadlines come from the caller's context.
type ConfigCodeCTRLInterface interface {
	Address() string
	TransportCredentials() credentials.TransportCredentials
	DialOptions() []grpc.DialOption
}
