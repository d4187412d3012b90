// Package memofs stores memos as text files under a root directory.
//
// Each memo lives at <root>/<category>/<id>.txt:
//
//	UUID: 3f2a...
//	CREATED_AT: 2024-05-01T10:00:00.000000Z
//	TITLE: Standup
//	TAGS: work, daily
//	CATEGORY: work
//	---
//	body text
//
// The header ends at the first line that is exactly "---". Directories
// whose name starts with a dot are ignored when listing, which keeps the
// index snapshot directory out of the scan.
package memofs
