package mocks

import "github.com/user/grainfx/pkg/ports"

// Progress is a mock implementation of ports.Progress.
type Progress struct {
	Total       int
	Description string
	Advanced    int
	Finished    bool
}

func (m *Progress) Start(total int, description string) {
	m.Total = total
	m.Description = description
}

func (m *Progress) Advance() {
	m.Advanced++
}

func (m *Progress) Finish() {
	m.Finished = true
}

var _ ports.Progress = (*Progress)(nil)
