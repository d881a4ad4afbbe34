// Package notify maps operation outcomes to the user-facing messages
// the CLI prints. Operators read Traditional Chinese; logs stay in
// English.
package notify

import (
	"fmt"

	"drylog/internal/errors"
)

// Level classifies a notification for rendering.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Error   Level = "error"
)

// Notification is one user-facing message.
type Notification struct {
	Level   Level
	Message string
}

func Infof(format string, args ...any) Notification {
	return Notification{Level: Info, Message: fmt.Sprintf(format, args...)}
}

func Successf(format string, args ...any) Notification {
	return Notification{Level: Success, Message: fmt.Sprintf(format, args...)}
}

// Common outcomes.

func RecordSaved() Notification   { return Successf("紀錄已儲存") }
func RecordUpdated() Notification { return Successf("紀錄已更新") }
func RecordDeleted() Notification { return Successf("紀錄已刪除") }
func AllCleared() Notification    { return Successf("所有紀錄已清除") }

func Imported(count int) Notification {
	return Successf("匯入完成，共 %d 筆紀錄", count)
}

func Exported(path string) Notification {
	return Successf("已匯出至 %s", path)
}

func GoldenSet() Notification   { return Successf("已設定為黃金批次") }
func GoldenUnset() Notification { return Infof("已取消黃金批次") }

func Skipped(count int) Notification {
	return Infof("已略過 %d 筆無法辨識的資料", count)
}

// NoData is the no-op outcome: an operation ran against an empty set.
func NoData() Notification { return Infof("沒有可處理的資料") }

// messages maps error codes to operator-facing text. Codes without an
// entry fall through to a generic failure line.
var messages = map[errors.ErrorCode]string{
	errors.RecordNotFound:    "找不到指定的紀錄",
	errors.SnapshotCorrupt:   "本機資料已損毀，已重設為空白清單",
	errors.PersistenceFailed: "儲存失敗，請再試一次",
	errors.ValidationFailed:  "輸入的資料格式有誤",
	errors.BatchUnparseable:  "檔案格式錯誤，無法解析",
	errors.CompareInvalid:    "請選擇兩筆紀錄進行比較",
	errors.ModelUnknown:      "不支援的機台型號",
	errors.SchemaInvalid:     "機台設定檔載入失敗",
	errors.RawDataMissing:    "此紀錄沒有原始圖表資料",
	errors.EmptyResult:       "沒有可處理的資料",
}

// FromError renders an error as a notification, preferring the typed
// code's message when one exists.
func FromError(err error) Notification {
	if msg, ok := messages[errors.CodeOf(err)]; ok {
		return Notification{Level: Error, Message: msg}
	}
	return Notification{Level: Error, Message: "發生未預期的錯誤"}
}
