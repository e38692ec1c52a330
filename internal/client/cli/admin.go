package cli

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
)

func (a *App) AdminUsers(ctx context.Context, _ []string) error {
	users, err := a.adminService.ListUsers(ctx)
	if err != nil {
		return a.fail(err, "Failed to load users")
	}
	for _, u := range users {
		plan := "basic"
		if u.Plan != nil && u.Plan.Name != "" {
			plan = u.Plan.Name
		}
		last := "never"
		if u.LastLogin != nil {
			last = u.LastLogin.Format("2006-01-02 15:04")
		}
		a.printf("%s  @%-16s %-6s %-9s last login %s\n", u.ID, u.Username, u.Role, plan, last)
	}
	return nil
}

func (a *App) AdminRemoveUser(ctx context.Context, args []string) error {
	ok, err := GetConfirmation(a.reader, "Delete user "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.adminService.DeleteUser(ctx, args[0]); err != nil {
		return a.fail(err, "Failed to delete user")
	}
	a.println("User deleted")
	return nil
}

func (a *App) AdminRole(ctx context.Context, args []string) error {
	u, err := a.adminService.UpdateUser(ctx, args[0], models.UserUpdate{Role: models.Role(args[1])})
	if err != nil {
		return a.fail(err, "Failed to update user")
	}
	a.printf("@%s is now %s\n", u.Username, u.Role)
	return nil
}

func (a *App) AdminLinks(ctx context.Context, _ []string) error {
	links, err := a.adminService.ListLinks(ctx)
	if err != nil {
		return a.fail(err, "Failed to load links")
	}
	a.mu.Lock()
	a.links = links
	a.mu.Unlock()

	for i, l := range links {
		a.printf("%d. @%s [%s] %s\n", i+1, l.Username, l.Type, l.URL)
	}
	return nil
}

func (a *App) AdminRemoveLink(ctx context.Context, args []string) error {
	i, ok := parseIndex(args[0])
	a.mu.Lock()
	var l models.PortfolioLink
	if ok && i < len(a.links) {
		l = a.links[i]
	} else {
		ok = false
	}
	a.mu.Unlock()
	if !ok {
		a.println("No such item; run admin-links first")
		return nil
	}

	if err := a.adminService.RemoveLink(ctx, l); err != nil {
		return a.fail(err, "Failed to remove link")
	}
	a.mu.Lock()
	a.links = nil
	a.mu.Unlock()
	a.println("Removed " + l.URL)
	return nil
}

func (a *App) Analytics(ctx context.Context, _ []string) error {
	an, err := a.adminService.Analytics(ctx)
	if err != nil {
		return a.fail(err, "Failed to load analytics")
	}
	a.printf("Users: %d total, %d active in the last 30 days\n", an.TotalUsers, an.ActiveUsers)
	for _, r := range []models.Role{models.RoleUser, models.RoleAdmin} {
		a.printf("  %-6s %d\n", r, an.RoleBreakdown[r])
	}
	plans := make([]string, 0, len(an.PlanBreakdown))
	for p := range an.PlanBreakdown {
		plans = append(plans, p)
	}
	sort.Strings(plans)
	for _, p := range plans {
		a.printf("  %-9s %d\n", p, an.PlanBreakdown[p])
	}
	return nil
}
