package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Task struct {
	Name        string      `json:"name"`
	Due         DueDateTime `json:"due"`
	Description string      `json:"description,omitempty"`
}

type Group struct {
	Name     string   `json:"name"`
	Priority Priority `json:"priority"`
}

type EntryKind string

const (
	EntryKindTask  EntryKind = "task"
	EntryKindGroup EntryKind = "group"
)

// Entry is the value stored in each outline node: exactly one of Task or
// Group, selected by Kind.
type Entry struct {
	Kind  EntryKind `json:"kind"`
	Task  *Task     `json:"task,omitempty"`
	Group *Group    `json:"group,omitempty"`
}

func TaskEntry(t Task) Entry   { return Entry{Kind: EntryKindTask, Task: &t} }
func GroupEntry(g Group) Entry { return Entry{Kind: EntryKindGroup, Group: &g} }

func (e Entry) IsTask() bool  { return e.Kind == EntryKindTask && e.Task != nil }
func (e Entry) IsGroup() bool { return e.Kind == EntryKindGroup && e.Group != nil }

// Title is the task or group name.
func (e Entry) Title() string {
	switch {
	case e.IsTask():
		return e.Task.Name
	case e.IsGroup():
		return e.Group.Name
	default:
		return ""
	}
}

// String is the one-line label used by the ASCII renderer.
func (e Entry) String() string {
	switch {
	case e.IsTask():
		if e.Task.Due.IsSet() {
			return fmt.Sprintf("%s (due %s)", e.Task.Name, e.Task.Due.Display())
		}
		return e.Task.Name
	case e.IsGroup():
		return fmt.Sprintf("[%s] %s", e.Group.Priority, e.Group.Name)
	default:
		return "<empty>"
	}
}

// Clone deep-copies the payload so edits to the copy never reach the tree.
func (e Entry) Clone() Entry {
	out := Entry{Kind: e.Kind}
	if e.Task != nil {
		t := *e.Task
		out.Task = &t
	}
	if e.Group != nil {
		g := *e.Group
		out.Group = &g
	}
	return out
}

// Equal compares kind and payload values.
func (e Entry) Equal(o Entry) bool {
	if e.Kind != o.Kind {
		return false
	}
	switch {
	case e.Task != nil && o.Task != nil:
		return e.Task.Name == o.Task.Name &&
			e.Task.Description == o.Task.Description &&
			e.Task.Due.Compare(o.Task.Due) == 0
	case e.Group != nil && o.Group != nil:
		return *e.Group == *o.Group
	default:
		return e.Task == nil && o.Task == nil && e.Group == nil && o.Group == nil
	}
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	type raw Entry
	var r raw
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	switch r.Kind {
	case EntryKindTask:
		if r.Task == nil || r.Group != nil {
			return fmt.Errorf("task entry needs exactly a task payload")
		}
	case EntryKindGroup:
		if r.Group == nil || r.Task != nil {
			return fmt.Errorf("group entry needs exactly a group payload")
		}
	default:
		return fmt.Errorf("unknown entry kind %q", r.Kind)
	}
	*e = Entry(r)
	return nil
}

// CompareEntries orders siblings: groups before tasks, groups by priority
// (highest first) then name, tasks by due date (earliest first, undated
// last) then name.
func CompareEntries(a, b Entry) int {
	if a.IsGroup() != b.IsGroup() {
		if a.IsGroup() {
			return -1
		}
		return 1
	}
	if a.IsGroup() {
		if c := b.Group.Priority.Compare(a.Group.Priority); c != 0 {
			return c
		}
		return compareNames(a.Group.Name, b.Group.Name)
	}
	if a.IsTask() && b.IsTask() {
		if c := a.Task.Due.Compare(b.Task.Due); c != 0 {
			return c
		}
		return compareNames(a.Task.Name, b.Task.Name)
	}
	return 0
}

func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
