package nova

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandConverter runs an external pdf-to-primitive tool, feeding the PDF
// on stdin and reading the JSON document from stdout.
type CommandConverter struct {
	Path string
	Args []string
}

func (c CommandConverter) Convert(ctx context.Context, pdf []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = bytes.NewReader(pdf)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("nova: %s: %w: %s", c.Path, err, msg)
		}
		return nil, fmt.Errorf("nova: %s: %w", c.Path, err)
	}
	return out.Bytes(), nil
}
