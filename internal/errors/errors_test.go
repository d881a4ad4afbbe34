package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := New(RecordNotFound, "record abc not found")
		got := err.Error()
		if got != "[RECORD_NOT_FOUND] record abc not found" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := fmt.Errorf("disk full")
		err := Wrap(PersistenceFailed, "failed to save snapshot", cause)
		got := err.Error()
		if !strings.Contains(got, "PERSISTENCE_FAILED") || !strings.Contains(got, "disk full") {
			t.Errorf("Error() = %q, want code and cause present", got)
		}
	})
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(SnapshotCorrupt, "snapshot is not a record array", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var de *DrylogError
	if !stderrors.As(err, &de) {
		t.Fatal("errors.As should find *DrylogError")
	}
	if de.Code != SnapshotCorrupt {
		t.Errorf("Code = %s, want %s", de.Code, SnapshotCorrupt)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil error", nil, ""},
		{"drylog error", New(ModelUnknown, "no such model"), ModelUnknown},
		{"wrapped drylog error", fmt.Errorf("outer: %w", New(CompareInvalid, "bad ids")), CompareInvalid},
		{"plain error", fmt.Errorf("plain"), InternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := New(ValidationFailed, "bad row")
	if !HasCode(err, ValidationFailed) {
		t.Error("HasCode should match the error's own code")
	}
	if HasCode(err, RecordNotFound) {
		t.Error("HasCode should not match a different code")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(BatchUnparseable, "cannot parse file").WithDetails(map[string]string{"file": "a.csv"})
	details, ok := err.Details.(map[string]string)
	if !ok || details["file"] != "a.csv" {
		t.Errorf("Details = %v", err.Details)
	}
}
