package models

// WorkflowState is the derived three-stage git workflow position of a
// project, plus the no-repository case.
type WorkflowState string

const (
	// WorkflowUnstaged: unstaged (or untracked) changes present.
	// Takes priority over everything else.
	WorkflowUnstaged WorkflowState = "unstaged"

	// WorkflowStaged: nothing unstaged, but staged changes waiting to
	// be committed.
	WorkflowStaged WorkflowState = "staged"

	// WorkflowClean: working tree and index both clean.
	WorkflowClean WorkflowState = "clean"

	// WorkflowNoGit: the project has no git repository.
	WorkflowNoGit WorkflowState = "no git"
)

// DeriveWorkflowState maps git status flags to a workflow state.
// Ordered by priority: unstaged wins over staged, staged over clean.
func DeriveWorkflowState(g GitStatus) WorkflowState {
	switch {
	case !g.HasGit:
		return WorkflowNoGit
	case g.HasUnstagedChanges:
		return WorkflowUnstaged
	case g.HasStagedChanges:
		return WorkflowStaged
	default:
		return WorkflowClean
	}
}

// ActionID identifies a dispatchable project action.
type ActionID string

const (
	ActionGitInit         ActionID = "init"
	ActionGitAdd          ActionID = "add"
	ActionGitCommit       ActionID = "commit"
	ActionGitPush         ActionID = "push"
	ActionGitPull         ActionID = "pull"
	ActionGitStatus       ActionID = "status"
	ActionGitRemoteInfo   ActionID = "remote-info"
	ActionGitCreateGitHub ActionID = "create-github"
)

// WorkflowAction is one button of the git workflow widget.
type WorkflowAction struct {
	ID    ActionID
	Label string

	// Primary marks the single highlighted action of the state
	Primary bool
}

// WorkflowActions returns the exact action set for a git status,
// one primary action per state:
//
//	unstaged -> Add (primary), View Changes, Pull when a remote exists
//	staged   -> Commit (primary), View Staged, Pull when a remote exists
//	clean    -> Status; Push (primary) + Pull with a remote,
//	            Create GitHub without one
//	no git   -> Initialize Git (primary)
func WorkflowActions(g GitStatus) []WorkflowAction {
	switch DeriveWorkflowState(g) {
	case WorkflowNoGit:
		return []WorkflowAction{
			{ID: ActionGitInit, Label: "Initialize Git", Primary: true},
		}

	case WorkflowUnstaged:
		actions := []WorkflowAction{
			{ID: ActionGitAdd, Label: "Add", Primary: true},
			{ID: ActionGitStatus, Label: "View Changes"},
		}
		if g.HasRemote {
			actions = append(actions, WorkflowAction{ID: ActionGitPull, Label: "Pull"})
		}
		return actions

	case WorkflowStaged:
		actions := []WorkflowAction{
			{ID: ActionGitCommit, Label: "Commit", Primary: true},
			{ID: ActionGitStatus, Label: "View Staged"},
		}
		if g.HasRemote {
			actions = append(actions, WorkflowAction{ID: ActionGitPull, Label: "Pull"})
		}
		return actions

	default: // clean
		if g.HasRemote {
			return []WorkflowAction{
				{ID: ActionGitPush, Label: "Push", Primary: true},
				{ID: ActionGitPull, Label: "Pull"},
				{ID: ActionGitStatus, Label: "Status"},
			}
		}
		return []WorkflowAction{
			{ID: ActionGitCreateGitHub, Label: "Create GitHub", Primary: true},
			{ID: ActionGitStatus, Label: "Status"},
		}
	}
}
