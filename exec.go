package xpipe

import (
	"fmt"
	"os"
	"os/exec"
)

// runCommand spawns argv with its stdin bound to a fresh pipe, writes data,
// closes the pipe, and waits for the child to exit. The child's stdout and
// stderr are the parent's own. A nonzero exit status is an error.
//
// Once the child has started it is always waited on: write and close errors
// are held until after Wait, so no process or pipe descriptor outlives the
// call on any path.
func runCommand(argv []string, data []byte) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("start %s: %w", argv[0], err)
	}

	_, writeErr := stdin.Write(data)
	closeErr := stdin.Close()
	waitErr := cmd.Wait()

	switch {
	case writeErr != nil:
		return fmt.Errorf("write to %s: %w", argv[0], writeErr)
	case closeErr != nil:
		return fmt.Errorf("close pipe to %s: %w", argv[0], closeErr)
	case waitErr != nil:
		return fmt.Errorf("%s: %w", argv[0], waitErr)
	}
	return nil
}
