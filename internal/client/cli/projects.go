package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
)

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	d, err := a.projectService.Dashboard(ctx)
	if err != nil {
		return a.fail(err, "Failed to load dashboard")
	}

	a.printf("Hello, %s\n", d.User.Name)
	a.printPlan(d.User.Plan)
	a.printf("Quotas: %d short, %d long, %d designs\n",
		d.Quotas[entitlement.ShortLinks], d.Quotas[entitlement.LongLinks], d.Quotas[entitlement.DesignImages])
	a.printf("Projects: %d\n", len(d.Projects))
	a.printf("Tasks: %d total, %d todo, %d in progress, %d done\n",
		d.Tasks.Total, d.Tasks.Todo, d.Tasks.InProgress, d.Tasks.Done)
	return nil
}

func (a *App) Projects(ctx context.Context, _ []string) error {
	ps, err := a.projectService.Projects(ctx)
	if err != nil {
		return a.fail(err, "Failed to load projects")
	}
	if len(ps) == 0 {
		a.println("No projects yet")
		return nil
	}
	for _, p := range ps {
		line := p.ID + "  " + p.Title
		if p.Client != "" {
			line += " (" + p.Client + ")"
		}
		if p.Deadline != nil {
			line += " due " + p.Deadline.Format("2006-01-02")
		}
		a.println(line)
	}
	return nil
}

func (a *App) AddProject(ctx context.Context, args []string) error {
	p, err := a.projectService.CreateProject(ctx, models.Project{Title: strings.Join(args, " ")})
	if err != nil {
		return a.fail(err, "Failed to create project")
	}
	a.println("Project created: " + p.ID)
	return nil
}

func (a *App) RemoveProject(ctx context.Context, args []string) error {
	if err := a.projectService.DeleteProject(ctx, args[0]); err != nil {
		return a.fail(err, "Failed to delete project")
	}
	a.println("Project deleted")
	return nil
}

func (a *App) Tasks(ctx context.Context, args []string) error {
	ts, err := a.projectService.Tasks(ctx, args[0])
	if err != nil {
		return a.fail(err, "Failed to load tasks")
	}
	if len(ts) == 0 {
		a.println("No tasks yet")
		return nil
	}
	for _, t := range ts {
		a.printf("%s  [%s] %s\n", t.ID, t.Status, t.Title)
	}
	return nil
}

func (a *App) AddTask(ctx context.Context, args []string) error {
	t, err := a.projectService.AddTask(ctx, args[0], strings.Join(args[1:], " "), nil)
	if err != nil {
		return a.fail(err, "Failed to add task")
	}
	a.println("Task added: " + t.ID)
	return nil
}

func (a *App) DoneTask(ctx context.Context, args []string) error {
	ts, err := a.projectService.Tasks(ctx, args[0])
	if err != nil {
		return a.fail(err, "Failed to load tasks")
	}
	for _, t := range ts {
		if t.ID != args[1] {
			continue
		}
		if _, err := a.projectService.SetTaskStatus(ctx, t, models.TaskDone); err != nil {
			return a.fail(err, "Failed to update task")
		}
		a.println("Task done")
		return nil
	}
	a.println("No such task")
	return nil
}

func (a *App) RemoveTask(ctx context.Context, args []string) error {
	if err := a.projectService.DeleteTask(ctx, args[0]); err != nil {
		return a.fail(err, "Failed to delete task")
	}
	a.println("Task deleted")
	return nil
}
