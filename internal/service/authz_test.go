package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowdesk/flowdesk/internal/domain"
	"github.com/flowdesk/flowdesk/internal/service"
)

func strPtr(s string) *string { return &s }

func testUser(id string, role domain.Role, dept domain.Department) *domain.User {
	return &domain.User{
		ID:         id,
		Name:       string(role),
		Role:       role,
		Department: dept,
		IsActive:   true,
	}
}

func videoTask(stage domain.Stage, status domain.TaskStatus) *domain.Task {
	return &domain.Task{
		ID:            "task-1",
		Department:    domain.DepartmentPhotography,
		Type:          domain.TaskTypeVideo,
		Status:        status,
		WorkflowStage: stage,
		CreatedBy:     "lead-1",
		ClientID:      strPtr("client-1"),
	}
}

// TestCanPerform_RoleMatrix drives the gate through the role matrix: who may
// do what, on which task, in which stage.
func TestCanPerform_RoleMatrix(t *testing.T) {
	tests := []struct {
		name   string
		actor  *domain.User
		task   *domain.Task
		action domain.Action
		want   bool
	}{
		{
			name:   "admin can do anything",
			actor:  testUser("admin-1", domain.RoleAdmin, domain.DepartmentContent),
			task:   videoTask(domain.StageReview, domain.TaskStatusInReview),
			action: domain.ActionReject,
			want:   true,
		},
		{
			name:   "client approves own task in review",
			actor:  testUser("client-1", domain.RoleClient, domain.DepartmentPhotography),
			task:   videoTask(domain.StageReview, domain.TaskStatusInReview),
			action: domain.ActionApprove,
			want:   true,
		},
		{
			name:   "client rejects own task in review",
			actor:  testUser("client-1", domain.RoleClient, domain.DepartmentPhotography),
			task:   videoTask(domain.StageReview, domain.TaskStatusInReview),
			action: domain.ActionReject,
			want:   true,
		},
		{
			name:   "client cannot approve before review",
			actor:  testUser("client-1", domain.RoleClient, domain.DepartmentPhotography),
			task:   videoTask(domain.StageEditing, domain.TaskStatusInProgress),
			action: domain.ActionApprove,
			want:   false,
		},
		{
			name:   "client cannot approve another client's task",
			actor:  testUser("client-2", domain.RoleClient, domain.DepartmentPhotography),
			task:   videoTask(domain.StageReview, domain.TaskStatusInReview),
			action: domain.ActionApprove,
			want:   false,
		},
		{
			name:   "client cannot drive forward actions",
			actor:  testUser("client-1", domain.RoleClient, domain.DepartmentPhotography),
			task:   videoTask(domain.StageNew, domain.TaskStatusNew),
			action: domain.ActionStart,
			want:   false,
		},
		{
			name:   "team leader advances own department task",
			actor:  testUser("lead-1", domain.RoleTeamLeader, domain.DepartmentPhotography),
			task:   videoTask(domain.StageFilming, domain.TaskStatusInProgress),
			action: domain.ActionMarkStageDone,
			want:   true,
		},
		{
			name:   "team leader blocked outside own department",
			actor:  testUser("lead-2", domain.RoleTeamLeader, domain.DepartmentContent),
			task:   videoTask(domain.StageFilming, domain.TaskStatusInProgress),
			action: domain.ActionMarkStageDone,
			want:   false,
		},
		{
			name:   "team leader cannot approve for the client",
			actor:  testUser("lead-1", domain.RoleTeamLeader, domain.DepartmentPhotography),
			task:   videoTask(domain.StageReview, domain.TaskStatusInReview),
			action: domain.ActionApprove,
			want:   false,
		},
		{
			name:   "account manager assigns within department",
			actor:  testUser("am-1", domain.RoleAccountManager, domain.DepartmentPhotography),
			task:   videoTask(domain.StageNew, domain.TaskStatusNew),
			action: domain.ActionAssign,
			want:   true,
		},
		{
			name:   "videographer starts a new video task",
			actor:  testUser("vid-1", domain.RoleVideographer, domain.DepartmentPhotography),
			task:   videoTask(domain.StageNew, domain.TaskStatusNew),
			action: domain.ActionStart,
			want:   true,
		},
		{
			name:   "videographer marks filming done",
			actor:  testUser("vid-1", domain.RoleVideographer, domain.DepartmentPhotography),
			task:   videoTask(domain.StageFilming, domain.TaskStatusInProgress),
			action: domain.ActionMarkStageDone,
			want:   true,
		},
		{
			name:   "videographer cannot touch the editing stage",
			actor:  testUser("vid-1", domain.RoleVideographer, domain.DepartmentPhotography),
			task:   videoTask(domain.StageEditing, domain.TaskStatusInProgress),
			action: domain.ActionMarkStageDone,
			want:   false,
		},
		{
			name:   "editor advances the editing stage",
			actor:  testUser("ed-1", domain.RoleEditor, domain.DepartmentPhotography),
			task:   videoTask(domain.StageEditing, domain.TaskStatusInProgress),
			action: domain.ActionMarkStageDone,
			want:   true,
		},
		{
			name:   "editor submits from editing_done",
			actor:  testUser("ed-1", domain.RoleEditor, domain.DepartmentPhotography),
			task:   videoTask(domain.StageEditingDone, domain.TaskStatusInProgress),
			action: domain.ActionSubmitForReview,
			want:   true,
		},
		{
			name:   "editor cannot assign",
			actor:  testUser("ed-1", domain.RoleEditor, domain.DepartmentPhotography),
			task:   videoTask(domain.StageEditing, domain.TaskStatusInProgress),
			action: domain.ActionAssign,
			want:   false,
		},
		{
			name:   "specialist blocked outside own department",
			actor:  testUser("ed-2", domain.RoleEditor, domain.DepartmentContent),
			task:   videoTask(domain.StageEditing, domain.TaskStatusInProgress),
			action: domain.ActionMarkStageDone,
			want:   false,
		},
		{
			name:   "specialist cannot reject",
			actor:  testUser("ed-1", domain.RoleEditor, domain.DepartmentPhotography),
			task:   videoTask(domain.StageReview, domain.TaskStatusInReview),
			action: domain.ActionReject,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.CanPerform(tt.actor, tt.task, tt.action)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestCanPerform_InactiveActor verifies deactivated accounts lose everything,
// admins included.
func TestCanPerform_InactiveActor(t *testing.T) {
	actor := testUser("admin-1", domain.RoleAdmin, domain.DepartmentContent)
	actor.IsActive = false

	task := videoTask(domain.StageNew, domain.TaskStatusNew)
	assert.False(t, service.CanPerform(actor, task, domain.ActionStart))
	assert.False(t, service.CanPerform(nil, task, domain.ActionStart))
}

// TestCanPerform_DesignDraftingSplit verifies the drafting stage is owned by
// designers on design tasks and creators on content tasks.
func TestCanPerform_DesignDraftingSplit(t *testing.T) {
	designTask := &domain.Task{
		ID:            "task-d",
		Department:    domain.DepartmentContent,
		Type:          domain.TaskTypeDesign,
		Status:        domain.TaskStatusInProgress,
		WorkflowStage: domain.StageDrafting,
	}
	contentTask := &domain.Task{
		ID:            "task-c",
		Department:    domain.DepartmentContent,
		Type:          domain.TaskTypeContent,
		Status:        domain.TaskStatusInProgress,
		WorkflowStage: domain.StageDrafting,
	}

	designer := testUser("des-1", domain.RoleDesigner, domain.DepartmentContent)
	creator := testUser("cre-1", domain.RoleCreator, domain.DepartmentContent)

	assert.True(t, service.CanPerform(designer, designTask, domain.ActionMarkStageDone))
	assert.False(t, service.CanPerform(creator, designTask, domain.ActionMarkStageDone))
	assert.True(t, service.CanPerform(creator, contentTask, domain.ActionMarkStageDone))
	assert.False(t, service.CanPerform(designer, contentTask, domain.ActionMarkStageDone))
}

// TestCanPerform_GeneralTaskFallsBackToAssignee verifies the working stage,
// which has no dedicated specialty, is gated on assignment.
func TestCanPerform_GeneralTaskFallsBackToAssignee(t *testing.T) {
	task := &domain.Task{
		ID:            "task-g",
		Department:    domain.DepartmentContent,
		Type:          domain.TaskTypeGeneral,
		Status:        domain.TaskStatusInProgress,
		WorkflowStage: domain.StageWorking,
		AssignedTo:    strPtr("cre-1"),
	}

	assignee := testUser("cre-1", domain.RoleCreator, domain.DepartmentContent)
	other := testUser("cre-2", domain.RoleCreator, domain.DepartmentContent)

	assert.True(t, service.CanPerform(assignee, task, domain.ActionSubmitForReview))
	assert.False(t, service.CanPerform(other, task, domain.ActionSubmitForReview))
}
