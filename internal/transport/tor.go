package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/tornago"
)

// TorDaemon is a tor process launched for the length of one run.
// It needs a tor binary on PATH.
type TorDaemon struct {
	process *tornago.TorProcess
	timeout time.Duration
}

// NewTorDaemon returns a daemon that waits up to timeout for tor to
// bootstrap. A non-positive timeout means three minutes.
func NewTorDaemon(timeout time.Duration) *TorDaemon {
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &TorDaemon{timeout: timeout}
}

// Start launches tor on OS-assigned ports and returns its SOCKS5 address
// once the port answers the SOCKS5 handshake. Pass the address to WithSOCKS5.
func (d *TorDaemon) Start(ctx context.Context) (string, error) {
	if d.process != nil {
		return "", ErrTorAlreadyStarted
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	launchCfg, err := tornago.NewTorLaunchConfig(
		tornago.WithTorSocksAddr(":0"),
		tornago.WithTorControlAddr(":0"),
		tornago.WithTorStartupTimeout(d.timeout),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create Tor launch config: %w", err)
	}

	process, err := tornago.StartTorDaemon(launchCfg)
	if err != nil {
		return "", fmt.Errorf("failed to start Tor daemon: %w", err)
	}

	addr := process.SocksAddr()
	if err := ctx.Err(); err != nil {
		_ = process.Stop() //nolint:errcheck // process is discarded
		return "", err
	}
	if err := CheckSOCKS5(ctx, addr).Err(); err != nil {
		_ = process.Stop() //nolint:errcheck // process is discarded
		return "", fmt.Errorf("tor SOCKS port %s: %w", addr, err)
	}

	d.process = process
	return addr, nil
}

// Stop terminates the daemon. Stopping a daemon that never started is a no-op.
func (d *TorDaemon) Stop() error {
	if d.process == nil {
		return nil
	}
	err := d.process.Stop()
	d.process = nil
	return err
}
