package cli

func (a *App) commands() []command {
	return []command{
		{name: "signup", usage: "signup", help: "create an account", run: a.Signup},
		{name: "login", usage: "login", help: "log in with email or username", run: a.Login},
		{name: "google", usage: "google <id-token>", help: "sign in with a Google ID token", minArgs: 1, run: a.Google},
		{name: "complete-google", usage: "complete-google", help: "finish a Google signup", run: a.CompleteGoogle},
		{name: "public", usage: "public <username>", help: "show someone's portfolio", minArgs: 1, run: a.Public},
		{name: "users", usage: "users", help: "list all users", run: a.Users},
		{name: "pricing", usage: "pricing", help: "show plans", run: a.Pricing},

		{name: "logout", usage: "logout", help: "log out", scope: scopeUser, run: a.Logout},
		{name: "dashboard", usage: "dashboard", help: "plan, projects and tasks overview", scope: scopeUser, run: a.Dashboard},
		{name: "profile", usage: "profile", help: "show your profile with pending edits", scope: scopeUser, run: a.Profile},
		{name: "editprofile", usage: "editprofile", help: "edit name, username, email and bio", scope: scopeUser, run: a.EditProfile},
		{name: "addlink", usage: "addlink <short|long> <url>", help: "add a video link", scope: scopeUser, minArgs: 2, run: a.AddLink},
		{name: "rmlink", usage: "rmlink <short|long> <n>", help: "remove a video link", scope: scopeUser, minArgs: 2, run: a.RemoveLink},
		{name: "addimage", usage: "addimage <path>", help: "add a design image (max 1MB)", scope: scopeUser, minArgs: 1, run: a.AddImage},
		{name: "rmimage", usage: "rmimage <n>", help: "remove a design image", scope: scopeUser, minArgs: 1, run: a.RemoveImage},
		{name: "settags", usage: "settags [tag...]", help: "replace profile tags (none clears them)", scope: scopeUser, run: a.SetTags},
		{name: "setavatar", usage: "setavatar <path>", help: "set the profile image (max 1MB)", scope: scopeUser, minArgs: 1, run: a.SetAvatar},
		{name: "rmavatar", usage: "rmavatar", help: "remove the profile image", scope: scopeUser, run: a.RemoveAvatar},
		{name: "saveprofile", usage: "saveprofile", help: "save profile changes", scope: scopeUser, run: a.SaveProfile},
		{name: "buy", usage: "buy <standard|premium>", help: "purchase or renew a plan", scope: scopeUser, minArgs: 1, run: a.Buy},
		{name: "projects", usage: "projects", help: "list projects", scope: scopeUser, run: a.Projects},
		{name: "addproject", usage: "addproject <title...>", help: "create a project", scope: scopeUser, minArgs: 1, run: a.AddProject},
		{name: "rmproject", usage: "rmproject <project-id>", help: "delete a project", scope: scopeUser, minArgs: 1, run: a.RemoveProject},
		{name: "tasks", usage: "tasks <project-id>", help: "list tasks of a project", scope: scopeUser, minArgs: 1, run: a.Tasks},
		{name: "addtask", usage: "addtask <project-id> <title...>", help: "add a task", scope: scopeUser, minArgs: 2, run: a.AddTask},
		{name: "donetask", usage: "donetask <project-id> <task-id>", help: "mark a task done", scope: scopeUser, minArgs: 2, run: a.DoneTask},
		{name: "rmtask", usage: "rmtask <task-id>", help: "delete a task", scope: scopeUser, minArgs: 1, run: a.RemoveTask},

		{name: "admin-users", usage: "admin-users", help: "list users", scope: scopeAdmin, run: a.AdminUsers},
		{name: "admin-rmuser", usage: "admin-rmuser <user-id>", help: "delete a user", scope: scopeAdmin, minArgs: 1, run: a.AdminRemoveUser},
		{name: "admin-role", usage: "admin-role <user-id> <user|admin>", help: "change a user's role", scope: scopeAdmin, minArgs: 2, run: a.AdminRole},
		{name: "admin-links", usage: "admin-links", help: "list all portfolio items", scope: scopeAdmin, run: a.AdminLinks},
		{name: "admin-rmlink", usage: "admin-rmlink <n>", help: "remove item n of the last admin-links", scope: scopeAdmin, minArgs: 1, run: a.AdminRemoveLink},
		{name: "analytics", usage: "analytics", help: "user statistics", scope: scopeAdmin, run: a.Analytics},
	}
}
