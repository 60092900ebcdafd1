// Package taskfile loads YAML batch descriptions for runx many.
//
// A task file is a list of tasks, each a shell command or an argv list
// with an optional name, working directory, and environment overlay:
//
//	parallel: true
//	tasks:
//	  - name: api
//	    command: make test
//	    dir: services/api
//	  - name: lint
//	    argv: [golangci-lint, run]
package taskfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmgilman/runx/internal/exec"
)

// Sentinel errors for task file loading.
var (
	ErrNoTasks     = errors.New("task file has no tasks")
	ErrInvalidTask = errors.New("invalid task")
)

// Task describes one invocation.
type Task struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command"`
	Argv    []string          `yaml:"argv"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
}

// File is a parsed task file.
type File struct {
	Parallel bool   `yaml:"parallel"`
	Tasks    []Task `yaml:"tasks"`
}

// Load reads and validates a task file.
func Load(path string) (*File, error) {
	//nolint:gosec // G304: path comes from the caller's -f flag
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return Parse(data)
}

// Parse validates task file bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}

	if len(f.Tasks) == 0 {
		return nil, ErrNoTasks
	}
	for i, task := range f.Tasks {
		if task.Command == "" && len(task.Argv) == 0 {
			return nil, fmt.Errorf("%w: task %d has neither command nor argv", ErrInvalidTask, i)
		}
		if task.Command != "" && len(task.Argv) > 0 {
			return nil, fmt.Errorf("%w: task %d has both command and argv", ErrInvalidTask, i)
		}
	}

	return &f, nil
}

// Batch converts the file into an explicit-invocation batch.
func (f *File) Batch() exec.Batch {
	invs := make([]exec.Options, 0, len(f.Tasks))
	for _, task := range f.Tasks {
		o := exec.Options{
			Dir:    task.Dir,
			Env:    task.Env,
			Prefix: task.Name,
		}
		if len(task.Argv) > 0 {
			o.Command = exec.Argv(task.Argv...)
		} else {
			o.Command = exec.Shell(task.Command)
		}
		invs = append(invs, o)
	}

	return exec.Batch{
		Parallel:    f.Parallel,
		Invocations: invs,
	}
}
