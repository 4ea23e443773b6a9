package internal

import "sort"

// TaskStore keeps pending tasks sorted by (expiration, id), earliest first.
type TaskStore struct {
	tasks []*Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make([]*Task, 0, 16),
	}
}

func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Insert places the task before the first entry that does not sort ahead of it.
func (s *TaskStore) Insert(task *Task) {
	i := sort.Search(len(s.tasks), func(i int) bool {
		return !s.tasks[i].less(task)
	})

	if i == len(s.tasks) {
		s.tasks = append(s.tasks, task)
		return
	}

	s.tasks = append(s.tasks, nil)
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = task
}

func (s *TaskStore) Peek() *Task {
	if len(s.tasks) == 0 {
		return nil
	}

	return s.tasks[0]
}

func (s *TaskStore) Pop() *Task {
	if len(s.tasks) == 0 {
		return nil
	}

	task := s.tasks[0]
	s.tasks[0] = nil
	s.tasks = s.tasks[1:]

	// drop the consumed prefix of the backing array
	if len(s.tasks) == 0 {
		s.tasks = nil
	}

	return task
}

// Remove drops the given task by identity.
func (s *TaskStore) Remove(task *Task) bool {
	for i, t := range s.tasks {
		if t != task {
			continue
		}

		copy(s.tasks[i:], s.tasks[i+1:])
		s.tasks[len(s.tasks)-1] = nil
		s.tasks = s.tasks[:len(s.tasks)-1]
		return true
	}

	return false
}
