package mapper

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/docsmith/collabd/src/collabd/entity"
	"github.com/docsmith/collabd/src/collabd/model"
)

// EncodeLockInfo serializes a LockInfo into its versioned side-channel payload.
func EncodeLockInfo(l entity.LockInfo) (string, error) {
	rec := model.LockInfoRecord{
		V:          model.LockInfoVersion,
		FilePath:   l.FilePath,
		BranchName: l.BranchName,
		UserID:     l.UserID,
		AcquiredAt: l.AcquiredAt.Unix(),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeLockInfo deserializes a side-channel payload. The second return is
// false for corrupt payloads or unknown versions; the caller treats those as
// absent.
func DecodeLockInfo(raw string) (entity.LockInfo, bool) {
	var rec model.LockInfoRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.V != model.LockInfoVersion {
		return entity.LockInfo{}, false
	}
	return entity.LockInfo{
		FilePath:   rec.FilePath,
		BranchName: rec.BranchName,
		UserID:     rec.UserID,
		AcquiredAt: time.Unix(rec.AcquiredAt, 0).UTC(),
	}, true
}

// EncodeLockOperation serializes an in-progress lock transition marker.
func EncodeLockOperation(op entity.LockOperation) (string, error) {
	rec := model.LockOperationRecord{
		V:         model.LockOperationVersion,
		Timestamp: op.StartedAt().Unix(),
	}

	switch o := op.(type) {
	case entity.LockAcquiring:
		rec.Type = model.LockOpAcquiring
		rec.ToFile = o.FilePath
		rec.BranchName = o.BranchName
	case entity.LockReleasing:
		rec.Type = model.LockOpReleasing
		rec.FromFile = o.FilePath
		rec.BranchName = o.BranchName
	case entity.LockSwitching:
		rec.Type = model.LockOpSwitching
		rec.FromFile = o.FromFile
		rec.ToFile = o.ToFile
		rec.BranchName = o.BranchName
	default:
		return "", fmt.Errorf("unknown lock operation type %T", op)
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeLockOperation deserializes a transition marker. The second return is
// false for corrupt payloads, unknown versions, or unknown type tags.
func DecodeLockOperation(raw string) (entity.LockOperation, bool) {
	var rec model.LockOperationRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.V != model.LockOperationVersion {
		return nil, false
	}

	ts := time.Unix(rec.Timestamp, 0).UTC()
	switch rec.Type {
	case model.LockOpAcquiring:
		return entity.LockAcquiring{FilePath: rec.ToFile, BranchName: rec.BranchName, Timestamp: ts}, true
	case model.LockOpReleasing:
		return entity.LockReleasing{FilePath: rec.FromFile, BranchName: rec.BranchName, Timestamp: ts}, true
	case model.LockOpSwitching:
		return entity.LockSwitching{FromFile: rec.FromFile, ToFile: rec.ToFile, BranchName: rec.BranchName, Timestamp: ts}, true
	default:
		return nil, false
	}
}

// EncodeCurrentBranch serializes the selected branch name.
func EncodeCurrentBranch(name string) (string, error) {
	b, err := json.Marshal(model.CurrentBranchRecord{V: model.CurrentBranchVersion, Name: name})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeCurrentBranch deserializes the selected branch name. The second
// return is false for corrupt payloads or unknown versions.
func DecodeCurrentBranch(raw string) (string, bool) {
	var rec model.CurrentBranchRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.V != model.CurrentBranchVersion || rec.Name == "" {
		return "", false
	}
	return rec.Name, true
}
