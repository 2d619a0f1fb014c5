package entity

// EditorState is the current state of the editor operation machine.
type EditorState int

const (
	// StateIdle indicates that no operation is in flight.
	StateIdle EditorState = iota
	// StateSaving indicates that a save operation is in flight.
	StateSaving
	// StateSwitchingBranch indicates that a branch switch is in flight.
	StateSwitchingBranch
	// StateLoadingContent indicates that content is being reloaded after a branch switch.
	StateLoadingContent
	// StateLoadingFile indicates that a file load is in flight.
	StateLoadingFile
)

// String implements fmt.Stringer.
func (s EditorState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSaving:
		return "SAVING"
	case StateSwitchingBranch:
		return "SWITCHING_BRANCH"
	case StateLoadingContent:
		return "LOADING_CONTENT"
	case StateLoadingFile:
		return "LOADING_FILE"
	default:
		return "UNKNOWN"
	}
}

// validTransitions holds the full transition table. Switching branch is
// always immediately followed by a content reload before settling back to
// idle; every other operation returns straight to idle.
var validTransitions = map[EditorState][]EditorState{
	StateIdle:            {StateSaving, StateSwitchingBranch, StateLoadingFile},
	StateSaving:          {StateIdle},
	StateSwitchingBranch: {StateLoadingContent},
	StateLoadingContent:  {StateIdle},
	StateLoadingFile:     {StateIdle},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s EditorState) CanTransitionTo(next EditorState) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// EditorOperation is a queued unit of editor work. Each kind carries its own
// payload; the editor controller dispatches with an exhaustive type switch.
type EditorOperation interface {
	isEditorOperation()
}

// SaveOperation persists the given content for a file on a branch.
type SaveOperation struct {
	FilePath   string
	Content    string
	BranchName string
}

// SwitchBranchOperation switches the current branch and reloads the active file.
type SwitchBranchOperation struct {
	BranchName string
	FilePath   string
}

// LoadFileOperation loads the authoritative draft for a file into the content store.
type LoadFileOperation struct {
	FilePath   string
	BranchName string
}

func (SaveOperation) isEditorOperation()         {}
func (SwitchBranchOperation) isEditorOperation() {}
func (LoadFileOperation) isEditorOperation()     {}
