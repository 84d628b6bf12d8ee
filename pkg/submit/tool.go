package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// successMarker is how webin-cli reports a completed upload on its
// standard output. Exit codes are not trustworthy across its versions.
const successMarker = "successfully"

// Outcome is the upload tool's verdict for one sample.
type Outcome struct {
	Success bool

	// Output is the tool's raw standard output, kept verbatim for the
	// audit logs.
	Output string
}

// Tool uploads one assembly described by a manifest file. The real
// implementation shells out to webin-cli; tests substitute a fake.
type Tool interface {
	Submit(ctx context.Context, manifestPath string) (Outcome, error)
}

type webinCli struct {
	jar      string
	username string
	password string
	test     bool
}

// NewWebinCli returns the Tool backed by the webin-cli jar. test
// routes uploads to the test service.
func NewWebinCli(jar string, username string, password string, test bool) Tool {
	return &webinCli{jar: jar, username: username, password: password, test: test}
}

func (w *webinCli) Submit(ctx context.Context, manifestPath string) (Outcome, error) {
	args := []string{
		"-jar", w.jar,
		"-username", w.username, "-password", w.password,
		"-context", "genome",
		"-manifest", manifestPath,
		"-submit",
	}
	if w.test {
		args = append(args, "-test")
	}

	cmd := exec.CommandContext(ctx, "java", args...)
	stdout := new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = stdout

	err := cmd.Run()
	var exit *exec.ExitError
	if err != nil && !errors.As(err, &exit) {
		// the tool could not run at all; a nonzero exit still counts
		// as an answer and is judged by its output below.
		return Outcome{}, fmt.Errorf("cannot run webin-cli: %w", err)
	}
	if ctx.Err() != nil {
		return Outcome{}, ctx.Err()
	}

	output := stdout.String()
	return Outcome{
		Success: strings.Contains(output, successMarker),
		Output:  output,
	}, nil
}
