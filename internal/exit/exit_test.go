package exit

import (
	"bytes"
	"testing"
)

func TestResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		result     *Result
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "success", result: Success("done\n"), wantCode: 0, wantStdout: "done\n"},
		{name: "error", result: Error("failed\n"), wantCode: 1, wantStderr: "failed\n"},
		{name: "errorf", result: Errorf("bad %s: %d\n", "step", 3), wantCode: 1, wantStderr: "bad step: 3\n"},
		{name: "custom", result: &Result{Stream: Stderr, ExitCode: 2, Message: "usage"}, wantCode: 2, wantStderr: "usage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			tt.result.Print(&stdout, &stderr)

			if tt.result.ExitCode != tt.wantCode {
				t.Fatalf("ExitCode = %d, want %d", tt.result.ExitCode, tt.wantCode)
			}
			if stdout.String() != tt.wantStdout {
				t.Fatalf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if stderr.String() != tt.wantStderr {
				t.Fatalf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
