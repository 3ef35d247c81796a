// Package netdiag diagnoses network-shaped startup failures: a listen
// address already in use, a refused connection to a dependency, and DNS
// resolution errors. Analyzers inspect the error chain, not text, so
// they run before the generic logmatch analyzer.
package netdiag

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterAnalyzer("portinuse", func() (types.Analyzer, error) {
		return portInUse{}, nil
	})
	registry.Default().MustRegisterAnalyzer("connrefused", func() (types.Analyzer, error) {
		return connRefused{}, nil
	})
	registry.Default().MustRegisterAnalyzer("dns", func() (types.Analyzer, error) {
		return dnsFailure{}, nil
	})
}

type portInUse struct{}

func (portInUse) Name() string  { return "portinuse" }
func (portInUse) Priority() int { return -10 }

func (portInUse) Analyze(failure error) *types.Diagnosis {
	if !errors.Is(failure, syscall.EADDRINUSE) {
		return nil
	}
	where := "the configured address"
	if addr := opAddr(failure); addr != "" {
		where = addr
	}
	return &types.Diagnosis{
		Description: fmt.Sprintf("The application could not bind to %s because another process is already listening on it.", where),
		Action:      "Identify and stop the process listening on that address, or configure this application to use a different port.",
		Cause:       failure,
	}
}

type connRefused struct{}

func (connRefused) Name() string  { return "connrefused" }
func (connRefused) Priority() int { return -10 }

func (connRefused) Analyze(failure error) *types.Diagnosis {
	if !errors.Is(failure, syscall.ECONNREFUSED) {
		return nil
	}
	where := "a dependency"
	if addr := opAddr(failure); addr != "" {
		where = "the dependency at " + addr
	}
	return &types.Diagnosis{
		Description: fmt.Sprintf("Connecting to %s was refused during startup.", where),
		Action:      "Check that the dependency is running, listening on the expected address, and reachable from this host.",
		Cause:       failure,
	}
}

type dnsFailure struct{}

func (dnsFailure) Name() string  { return "dns" }
func (dnsFailure) Priority() int { return -10 }

func (dnsFailure) Analyze(failure error) *types.Diagnosis {
	var dnsErr *net.DNSError
	if !errors.As(failure, &dnsErr) {
		return nil
	}
	if dnsErr.IsNotFound {
		return &types.Diagnosis{
			Description: fmt.Sprintf("The hostname %q could not be resolved.", dnsErr.Name),
			Action:      "Verify the hostname in your configuration and that DNS is reachable from this host.",
			Cause:       failure,
		}
	}
	return &types.Diagnosis{
		Description: fmt.Sprintf("DNS resolution of %q failed: %s.", dnsErr.Name, dnsErr.Err),
		Action:      "Check DNS server reachability; if the failure is transient, the resolver may recover on retry.",
		Cause:       failure,
	}
}

// opAddr extracts the address from a net.OpError in the chain, preferring
// the local address for listen errors and the remote one for dials.
func opAddr(err error) string {
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return ""
	}
	if opErr.Addr != nil {
		return opErr.Addr.String()
	}
	if opErr.Source != nil {
		return opErr.Source.String()
	}
	return ""
}
