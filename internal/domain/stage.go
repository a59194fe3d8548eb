package domain

// TaskType determines which stage graph applies to a task.
type TaskType string

const (
	TaskTypeVideo   TaskType = "video"
	TaskTypePhoto   TaskType = "photo"
	TaskTypeEditing TaskType = "editing"
	TaskTypeContent TaskType = "content"
	TaskTypeDesign  TaskType = "design"
	TaskTypeGeneral TaskType = "general"
)

// IsValid checks if the task type is one of the allowed values.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeVideo, TaskTypePhoto, TaskTypeEditing,
		TaskTypeContent, TaskTypeDesign, TaskTypeGeneral:
		return true
	default:
		return false
	}
}

// Stage is the fine-grained production step within a task's lifecycle.
type Stage string

const (
	StageNew         Stage = "new"
	StageFilming     Stage = "filming"
	StageShooting    Stage = "shooting"
	StageEditing     Stage = "editing"
	StageEditingDone Stage = "editing_done"
	StageDrafting    Stage = "drafting"
	StageWorking     Stage = "working"
	StageReview      Stage = "review"
)

// Action is a lifecycle operation requested by an actor.
type Action string

const (
	ActionAssign          Action = "assign"
	ActionStart           Action = "start"
	ActionMarkStageDone   Action = "mark_stage_done"
	ActionSubmitForReview Action = "submit_for_review"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
)

// IsForward returns true for actions that move a task toward review.
func (a Action) IsForward() bool {
	switch a {
	case ActionStart, ActionMarkStageDone, ActionSubmitForReview:
		return true
	default:
		return false
	}
}

// StageGraph is the ordered list of stages for one task type, from "new"
// through the production stages to "review". ReturnStage is the production
// stage a rejected task is sent back to; it is declared per graph rather than
// derived, because marker stages like editing_done sit between the real work
// and review.
type StageGraph struct {
	Stages      []Stage
	ReturnStage Stage
}

// GraphFor returns the stage graph for a task type.
func GraphFor(taskType TaskType) (StageGraph, bool) {
	switch taskType {
	case TaskTypeVideo:
		return StageGraph{
			Stages:      []Stage{StageNew, StageFilming, StageEditing, StageEditingDone, StageReview},
			ReturnStage: StageEditing,
		}, true
	case TaskTypePhoto:
		return StageGraph{
			Stages:      []Stage{StageNew, StageShooting, StageReview},
			ReturnStage: StageShooting,
		}, true
	case TaskTypeEditing:
		return StageGraph{
			Stages:      []Stage{StageNew, StageEditing, StageReview},
			ReturnStage: StageEditing,
		}, true
	case TaskTypeContent, TaskTypeDesign:
		return StageGraph{
			Stages:      []Stage{StageNew, StageDrafting, StageReview},
			ReturnStage: StageDrafting,
		}, true
	case TaskTypeGeneral:
		return StageGraph{
			Stages:      []Stage{StageNew, StageWorking, StageReview},
			ReturnStage: StageWorking,
		}, true
	default:
		return StageGraph{}, false
	}
}

// Contains checks if the stage is a member of the graph.
func (g StageGraph) Contains(stage Stage) bool {
	for _, s := range g.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Next returns the stage after the given one. The second return value is
// false when the stage is review (terminal) or not in the graph at all.
func (g StageGraph) Next(stage Stage) (Stage, bool) {
	for i, s := range g.Stages {
		if s == stage {
			if i+1 >= len(g.Stages) {
				return "", false
			}
			return g.Stages[i+1], true
		}
	}
	return "", false
}

// FirstProductionStage returns the stage a started task enters.
func (g StageGraph) FirstProductionStage() Stage {
	return g.Stages[1]
}

// StageOwner returns the specialist role responsible for working a production
// stage of the given task type. Returns false for stages owned by no single
// specialty (new, review, working).
func StageOwner(taskType TaskType, stage Stage) (Role, bool) {
	switch stage {
	case StageFilming:
		return RoleVideographer, true
	case StageShooting:
		return RolePhotographer, true
	case StageEditing, StageEditingDone:
		return RoleEditor, true
	case StageDrafting:
		if taskType == TaskTypeDesign {
			return RoleDesigner, true
		}
		return RoleCreator, true
	default:
		return "", false
	}
}
