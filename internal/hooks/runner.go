package hooks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/creack/pty"
)

// Runner runs post-generate commands in the output directory and relays their output
type Runner struct {
	// Output receives every non-empty line a command prints
	Output func(command, line string)
	// DisablePTY runs commands over plain pipes even where a PTY is available
	DisablePTY bool
}

// NewRunner creates a runner relaying command output to output
func NewRunner(output func(command, line string)) *Runner {
	if output == nil {
		output = func(command, line string) {
			fmt.Println(line)
		}
	}
	return &Runner{Output: output}
}

// Run executes commands one after another, stopping at the first failure
func (r *Runner) Run(ctx context.Context, commands []string, dir string) error {
	for _, command := range commands {
		if strings.TrimSpace(command) == "" {
			continue
		}
		if err := r.run(ctx, command, dir); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, command, dir string) error {
	if !r.DisablePTY {
		cmd := shellCommand(ctx, command, dir)

		// Use PTY so formatters keep their colored output
		ptmx, err := pty.Start(cmd)
		if err == nil {
			r.relay(command, ptmx)
			ptmx.Close()
			return wrapExit(command, cmd.Wait())
		}
	}

	cmd := shellCommand(ctx, command, dir)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to hook %q: %w", command, err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start hook %q: %w", command, err)
	}
	r.relay(command, stdout)
	return wrapExit(command, cmd.Wait())
}

// relay forwards output line by line until the command closes it
func (r *Runner) relay(command string, output io.Reader) {
	scanner := bufio.NewScanner(output)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			r.Output(command, line)
		}
	}
}

func shellCommand(ctx context.Context, command, dir string) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = dir
	cmd.Env = os.Environ()
	return cmd
}

func wrapExit(command string, err error) error {
	if err != nil {
		return fmt.Errorf("hook %q failed: %w", command, err)
	}
	return nil
}
