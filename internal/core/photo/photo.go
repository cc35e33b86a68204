// Package photo derives deterministic file names for uploaded shift photos
// and maps extensions to content types.
package photo

import (
	"fmt"
	"strings"
	"time"
)

// TimeLabel renders the capture time component of a photo file name.
func TimeLabel(moment time.Time) string {
	return moment.Format("2006-01-02_15-04-05")
}

// DayTitle renders the dated folder name photos are grouped under.
func DayTitle(day time.Time) string {
	return day.Format("2006-01-02")
}

// FileName builds "<timeLabel>_<userID>_<NN><ext>". The ordinal is
// zero-padded to two digits; callers bump it past 99 unpadded on extreme
// conflict chains.
func FileName(timeLabel string, userID int64, ordinal int, ext string) string {
	return fmt.Sprintf("%s_%d_%02d%s", timeLabel, userID, ordinal, ext)
}

// NormalizeExt lower-cases an extension and defaults to ".jpg" when the
// source path has none.
func NormalizeExt(ext string) string {
	cleaned := strings.ToLower(strings.TrimSpace(ext))
	if cleaned == "" {
		return ".jpg"
	}
	if !strings.HasPrefix(cleaned, ".") {
		cleaned = "." + cleaned
	}
	return cleaned
}

// ContentType maps an extension to the MIME type sent to the file store.
func ContentType(ext string) string {
	switch NormalizeExt(ext) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
