package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidEdit, "shot %q has negative duration", "0042")
	if err.Code != ErrCodeInvalidEdit {
		t.Errorf("Code = %s", err.Code)
	}
	if got, want := err.Error(), `INVALID_EDIT: shot "0042" has negative duration`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := Wrap(ErrCodeStore, fs.ErrNotExist, "load edit %s", "reel-01")
	if got, want := wrapped.Error(), "STORE_ERROR: load edit reel-01: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeStore, fs.ErrNotExist, "load edit")
	if errors.Unwrap(err) != fs.ErrNotExist {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should see the wrapped cause")
	}
}

// chain mirrors how commands report failures: a coded error from a package,
// wrapped with context by the caller.
func chain(code Code) error {
	return fmt.Errorf("render reel-01: %w", New(code, "no such tag cp_fx"))
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		is       bool
		notFound bool
		message  string
	}{
		{
			name:     "direct",
			err:      New(ErrCodeEditNotFound, "edit reel-02 not found"),
			code:     ErrCodeEditNotFound,
			is:       true,
			notFound: true,
			message:  "edit reel-02 not found",
		},
		{
			name:     "behind fmt wrap",
			err:      chain(ErrCodeCriterionNotFound),
			code:     ErrCodeCriterionNotFound,
			is:       true,
			notFound: true,
			message:  "no such tag cp_fx",
		},
		{
			name:    "outer code wins",
			err:     Wrap(ErrCodeStore, New(ErrCodeInvalidInput, "bad id"), "put edit"),
			code:    ErrCodeStore,
			is:      true,
			message: "put edit",
		},
		{
			name:     "file not found",
			err:      Wrap(ErrCodeFileNotFound, fs.ErrNotExist, "read edit.yaml"),
			code:     ErrCodeFileNotFound,
			is:       true,
			notFound: true,
			message:  "read edit.yaml",
		},
		{
			name:    "plain error",
			err:     errors.New("disk full"),
			message: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && Is(tt.err, tt.code) != tt.is {
				t.Errorf("Is(%s) = %v, want %v", tt.code, !tt.is, tt.is)
			}
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestNilError(t *testing.T) {
	if Is(nil, ErrCodeInvalidInput) {
		t.Error("Is(nil) = true")
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true")
	}
}
