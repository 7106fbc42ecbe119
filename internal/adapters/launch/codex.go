package launch

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/bnema/codextendo/internal/domain"
	"github.com/bnema/codextendo/internal/ports"
)

// CodexLauncher resumes a session by spawning the external CLI with the
// session id and an optional first message. The child inherits the
// caller's stdio: the resumed session is interactive.
type CodexLauncher struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

var _ ports.SessionLauncher = (*CodexLauncher)(nil)

func (l *CodexLauncher) Resume(ctx context.Context, id domain.SessionID, firstMessage string) error {
	if _, err := exec.LookPath(l.Command); err != nil {
		return fmt.Errorf("resume command %q not found: %w", l.Command, err)
	}

	args := []string{"resume", string(id)}
	if firstMessage != "" {
		args = append(args, firstMessage)
	}

	child := exec.CommandContext(ctx, l.Command, args...)
	child.Stdin = l.Stdin
	child.Stdout = l.Stdout
	child.Stderr = l.Stderr

	if err := child.Run(); err != nil {
		return fmt.Errorf("resume session %s: %w", id, err)
	}

	return nil
}
