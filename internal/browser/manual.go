package browser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// waitForEnter asks the user to click Easy Apply for jobURL and blocks
// until a line is read from in or ctx is done.
func waitForEnter(ctx context.Context, in *bufio.Reader, out io.Writer, jobURL string) error {
	fmt.Fprintf(out, "Job URL: %s\n", jobURL)
	fmt.Fprintln(out, "Click 'Easy Apply' in the browser, then press ENTER once the dialog is open...")

	done := make(chan error, 1)
	go func() {
		_, err := in.ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		return nil
	}
}
