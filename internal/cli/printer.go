package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"todo-store/internal/domain"
)

// sortByCreated orders tasks oldest first. Ties keep storage order.
func sortByCreated(tasks []domain.Task) []domain.Task {
	sorted := domain.CloneTasks(tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt < sorted[j].CreatedAt
	})
	return sorted
}

// summarize counts a broadcast collection.
func summarize(tasks []domain.Task) string {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return fmt.Sprintf("%s (%d active, %d completed)", pluralTasks(len(tasks)), len(tasks)-completed, completed)
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}

// formatTaskLine renders one list row:
// [x] title  #label  due 2024-05-03 (overdue)  [status]  id
func formatTaskLine(t domain.Task, today time.Time) string {
	var b strings.Builder

	if t.Completed {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(t.DisplayTitle())

	if t.Label != "" {
		b.WriteString("  #" + t.Label)
	}
	if t.DueDate != "" {
		b.WriteString("  due " + t.DueDate)
		if t.IsOverdue(today) {
			b.WriteString(" (overdue)")
		}
	}
	if t.Status != domain.StatusNone {
		b.WriteString("  [" + string(t.Status) + "]")
	}
	b.WriteString("  " + t.ID)
	return b.String()
}

func (a *App) printTaskDetail(t domain.Task) {
	dateFormat := a.config.Display.DateFormat

	a.printf("ID:          %s\n", t.ID)
	a.printf("Title:       %s\n", t.DisplayTitle())
	a.printf("Completed:   %s\n", yesNo(t.Completed))
	if t.Label != "" {
		a.printf("Label:       %s\n", t.Label)
	}
	if t.Description != "" {
		a.printf("Description: %s\n", t.Description)
	}
	if t.StartDate != "" {
		a.printf("Start:       %s\n", t.StartDate)
	}
	if t.DueDate != "" {
		a.printf("Due:         %s\n", t.DueDate)
	}
	if t.Status != domain.StatusNone {
		a.printf("Status:      %s\n", t.Status)
	}
	a.printf("Created:     %s\n", t.Created().Local().Format(dateFormat))
	a.printf("Updated:     %s\n", t.Updated().Local().Format(dateFormat))

	if len(t.Extra) > 0 {
		keys := make([]string, 0, len(t.Extra))
		for k := range t.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			a.printf("%-12s %s\n", k+":", string(t.Extra[k]))
		}
	}
}

func (a *App) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	a.printf("%s\n", data)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
