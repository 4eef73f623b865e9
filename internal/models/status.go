package models

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

// ProjectStatuses lists project states in display order
var ProjectStatuses = []ProjectStatus{ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectOnHold}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// Label returns the display name of the status
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectPlanning:
		return "规划中"
	case ProjectInProgress:
		return "进行中"
	case ProjectCompleted:
		return "已完成"
	case ProjectOnHold:
		return "已暂停"
	}
	return string(s)
}

// Next returns the following status in display order, wrapping around
func (s ProjectStatus) Next() ProjectStatus {
	for i, st := range ProjectStatuses {
		if st == s {
			return ProjectStatuses[(i+1)%len(ProjectStatuses)]
		}
	}
	return ProjectPlanning
}

// TaskStatus is the state of a project task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Next cycles todo -> in-progress -> completed -> todo
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case TaskTodo:
		return TaskInProgress
	case TaskInProgress:
		return TaskCompleted
	}
	return TaskTodo
}

func (s TaskStatus) Label() string {
	switch s {
	case TaskTodo:
		return "待办"
	case TaskInProgress:
		return "进行中"
	case TaskCompleted:
		return "已完成"
	}
	return string(s)
}

// Priority is the urgency of a project task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next cycles low -> medium -> high -> low
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	}
	return PriorityLow
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "低"
	case PriorityMedium:
		return "中"
	case PriorityHigh:
		return "高"
	}
	return string(p)
}
