// Package mapper converts between entity and model shapes and encodes the
// versioned side-channel payloads.
package mapper

import (
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/model"
)

// DraftToModel converts a draft entity into its storage row.
func DraftToModel(d entity.DraftSession) model.DraftSession {
	m := model.DraftSession{
		FilePath:   d.FilePath,
		BranchName: d.BranchName,
		Content:    d.Content,
		LockedBy:   d.LockedBy,
	}
	if !d.LockedAt.IsZero() {
		m.LockedAt = d.LockedAt.Unix()
	}
	if !d.UpdatedAt.IsZero() {
		m.UpdatedAt = d.UpdatedAt.Unix()
	}
	return m
}

// ModelToDraft converts a storage row into a draft entity.
func ModelToDraft(m model.DraftSession) entity.DraftSession {
	d := entity.DraftSession{
		FilePath:   m.FilePath,
		BranchName: m.BranchName,
		Content:    m.Content,
		LockedBy:   m.LockedBy,
	}
	if m.LockedAt > 0 {
		d.LockedAt = time.Unix(m.LockedAt, 0).UTC()
	}
	if m.UpdatedAt > 0 {
		d.UpdatedAt = time.Unix(m.UpdatedAt, 0).UTC()
	}
	return d
}
