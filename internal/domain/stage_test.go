package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdesk/flowdesk/internal/domain"
)

// TestGraphFor_AllTypes verifies every task type resolves to a graph that
// starts at new, ends at review, and declares an in-graph return stage.
func TestGraphFor_AllTypes(t *testing.T) {
	types := []domain.TaskType{
		domain.TaskTypeVideo,
		domain.TaskTypePhoto,
		domain.TaskTypeEditing,
		domain.TaskTypeContent,
		domain.TaskTypeDesign,
		domain.TaskTypeGeneral,
	}

	for _, taskType := range types {
		graph, ok := domain.GraphFor(taskType)
		require.True(t, ok, "no graph for %s", taskType)
		require.GreaterOrEqual(t, len(graph.Stages), 3)

		assert.Equal(t, domain.StageNew, graph.Stages[0])
		assert.Equal(t, domain.StageReview, graph.Stages[len(graph.Stages)-1])
		assert.True(t, graph.Contains(graph.ReturnStage),
			"%s return stage %s not in its own graph", taskType, graph.ReturnStage)
		assert.NotEqual(t, domain.StageNew, graph.ReturnStage)
		assert.NotEqual(t, domain.StageReview, graph.ReturnStage)
	}
}

// TestGraphFor_UnknownType verifies unknown task types have no graph.
func TestGraphFor_UnknownType(t *testing.T) {
	_, ok := domain.GraphFor(domain.TaskType("podcast"))
	assert.False(t, ok)
}

// TestGraph_VideoChain walks the video pipeline stage by stage.
func TestGraph_VideoChain(t *testing.T) {
	graph, ok := domain.GraphFor(domain.TaskTypeVideo)
	require.True(t, ok)

	want := []domain.Stage{
		domain.StageNew,
		domain.StageFilming,
		domain.StageEditing,
		domain.StageEditingDone,
		domain.StageReview,
	}
	assert.Equal(t, want, graph.Stages)
	assert.Equal(t, domain.StageEditing, graph.ReturnStage)

	next, ok := graph.Next(domain.StageNew)
	require.True(t, ok)
	assert.Equal(t, domain.StageFilming, next)

	next, ok = graph.Next(domain.StageEditingDone)
	require.True(t, ok)
	assert.Equal(t, domain.StageReview, next)
}

// TestGraph_NextFromReview verifies review is the end of every graph.
func TestGraph_NextFromReview(t *testing.T) {
	for _, taskType := range []domain.TaskType{
		domain.TaskTypeVideo, domain.TaskTypePhoto, domain.TaskTypeGeneral,
	} {
		graph, ok := domain.GraphFor(taskType)
		require.True(t, ok)

		_, ok = graph.Next(domain.StageReview)
		assert.False(t, ok, "%s graph continues past review", taskType)
	}
}

// TestGraph_NextFromForeignStage verifies stages outside the graph have no
// next stage instead of aliasing onto a stage that happens to share a name.
func TestGraph_NextFromForeignStage(t *testing.T) {
	graph, ok := domain.GraphFor(domain.TaskTypePhoto)
	require.True(t, ok)

	_, ok = graph.Next(domain.StageFilming)
	assert.False(t, ok)
}

// TestGraph_StepsToReview verifies each graph reaches review by repeatedly
// taking the next stage, in exactly len(stages)-1 steps.
func TestGraph_StepsToReview(t *testing.T) {
	for _, taskType := range []domain.TaskType{
		domain.TaskTypeVideo,
		domain.TaskTypePhoto,
		domain.TaskTypeEditing,
		domain.TaskTypeContent,
		domain.TaskTypeDesign,
		domain.TaskTypeGeneral,
	} {
		graph, ok := domain.GraphFor(taskType)
		require.True(t, ok)

		stage := domain.StageNew
		steps := 0
		for stage != domain.StageReview {
			next, ok := graph.Next(stage)
			require.True(t, ok, "%s dead-ends at %s", taskType, stage)
			stage = next
			steps++
		}
		assert.Equal(t, len(graph.Stages)-1, steps, "task type %s", taskType)
	}
}

// TestStageOwner verifies the stage-to-specialty mapping, including the
// design/content split on the shared drafting stage.
func TestStageOwner(t *testing.T) {
	tests := []struct {
		taskType domain.TaskType
		stage    domain.Stage
		want     domain.Role
		owned    bool
	}{
		{domain.TaskTypeVideo, domain.StageFilming, domain.RoleVideographer, true},
		{domain.TaskTypeVideo, domain.StageEditing, domain.RoleEditor, true},
		{domain.TaskTypeVideo, domain.StageEditingDone, domain.RoleEditor, true},
		{domain.TaskTypePhoto, domain.StageShooting, domain.RolePhotographer, true},
		{domain.TaskTypeContent, domain.StageDrafting, domain.RoleCreator, true},
		{domain.TaskTypeDesign, domain.StageDrafting, domain.RoleDesigner, true},
		{domain.TaskTypeGeneral, domain.StageWorking, "", false},
		{domain.TaskTypeVideo, domain.StageNew, "", false},
		{domain.TaskTypeVideo, domain.StageReview, "", false},
	}

	for _, tt := range tests {
		owner, ok := domain.StageOwner(tt.taskType, tt.stage)
		assert.Equal(t, tt.owned, ok, "%s/%s", tt.taskType, tt.stage)
		if tt.owned {
			assert.Equal(t, tt.want, owner, "%s/%s", tt.taskType, tt.stage)
		}
	}
}

// TestTaskStatus_IsTerminal verifies only approved and rejected are terminal.
func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.TaskStatusApproved.IsTerminal())
	assert.True(t, domain.TaskStatusRejected.IsTerminal())

	for _, status := range []domain.TaskStatus{
		domain.TaskStatusNew,
		domain.TaskStatusInProgress,
		domain.TaskStatusInReview,
		domain.TaskStatusRevision,
	} {
		assert.False(t, status.IsTerminal(), "status %s", status)
	}
}

// TestAction_IsForward verifies the forward/disposition split.
func TestAction_IsForward(t *testing.T) {
	assert.True(t, domain.ActionStart.IsForward())
	assert.True(t, domain.ActionMarkStageDone.IsForward())
	assert.True(t, domain.ActionSubmitForReview.IsForward())

	assert.False(t, domain.ActionAssign.IsForward())
	assert.False(t, domain.ActionApprove.IsForward())
	assert.False(t, domain.ActionReject.IsForward())
}
