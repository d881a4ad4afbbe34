package notify

import (
	stderrors "errors"
	"testing"

	"drylog/internal/errors"
)

func TestFromErrorMapsKnownCodes(t *testing.T) {
	n := FromError(errors.New(errors.RecordNotFound, "record not found"))
	if n.Level != Error || n.Message != "找不到指定的紀錄" {
		t.Errorf("notification = %+v", n)
	}

	// Wrapped typed errors still resolve their code.
	wrapped := errors.Wrap(errors.BatchUnparseable, "reading file", stderrors.New("io"))
	if got := FromError(wrapped).Message; got != "檔案格式錯誤，無法解析" {
		t.Errorf("wrapped message = %q", got)
	}
}

func TestFromErrorUnknownCode(t *testing.T) {
	n := FromError(stderrors.New("boom"))
	if n.Message != "發生未預期的錯誤" {
		t.Errorf("fallback message = %q", n.Message)
	}
}

func TestOutcomeHelpers(t *testing.T) {
	if n := Imported(12); n.Level != Success || n.Message != "匯入完成，共 12 筆紀錄" {
		t.Errorf("Imported = %+v", n)
	}
	if n := Skipped(3); n.Level != Info {
		t.Errorf("Skipped level = %v", n.Level)
	}
}
