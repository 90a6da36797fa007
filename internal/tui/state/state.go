package state

import "github.com/glabrego/tagdeck/internal/session"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// BodyHeight is the number of list rows that fit below the chrome.
func BodyHeight(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	chromeLines := 5
	if hasStatus {
		chromeLines += 2
	}
	rows := height - chromeLines
	if rows < 3 {
		rows = 3
	}
	return rows
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func CursorForTag(items []session.Item, tagID string) int {
	for i, item := range items {
		if item.Tag.ID == tagID {
			return i
		}
	}
	return -1
}

// SyncedCursor keeps the cursor on the same tag across frames. When the tag
// left the page it falls back to the old position, clamped.
func SyncedCursor(prev, next []session.Item, cursor int) int {
	if cursor >= 0 && cursor < len(prev) {
		if i := CursorForTag(next, prev[cursor].Tag.ID); i >= 0 {
			return i
		}
	}
	return ClampCursor(cursor, len(next))
}
