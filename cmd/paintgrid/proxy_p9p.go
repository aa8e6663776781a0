//go:build !plan9

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// shutdownSignals are the OS signals that trigger a clean exit.
// SIGTERM is included for launchd/systemd service managers.
var shutdownSignals = []os.Signal{os.Interrupt, unix.SIGTERM}

// listen starts 9pserve announcing unix!srvPath and returns our end of
// a socketpair wired to its stdin and stdout.  9pserve multiplexes every
// client onto that single stream, so one Serve call handles them all.
// cleanup closes our end and reaps 9pserve.
func listen(srvPath string) (io.ReadWriteCloser, func(), error) {
	os.Remove(srvPath)

	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}
	// No SOCK_CLOEXEC on darwin in x/sys/unix.  The dup2'd stdin and
	// stdout of 9pserve survive exec regardless.
	unix.CloseOnExec(fds[0])
	unix.CloseOnExec(fds[1])
	parent := os.NewFile(uintptr(fds[0]), "paintgrid-srv")
	child := os.NewFile(uintptr(fds[1]), "paintgrid-9pserve")

	cmd := exec.Command("9pserve", "unix!"+srvPath)
	cmd.Stdin = child
	cmd.Stdout = child
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		parent.Close()
		child.Close()
		return nil, nil, fmt.Errorf("9pserve: %w", err)
	}
	child.Close()

	cleanup := func() {
		parent.Close() // 9pserve sees EOF and exits
		cmd.Wait()     //nolint:errcheck
	}
	return parent, cleanup, nil
}
