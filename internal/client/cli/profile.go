package cli

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/client/services"
)

func parseKind(s string) (entitlement.Kind, bool) {
	switch s {
	case "short":
		return entitlement.ShortLinks, true
	case "long":
		return entitlement.LongLinks, true
	default:
		return 0, false
	}
}

// parseIndex reads a 1-based position as printed by the listings.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// profileEditor returns the editor of the current session, loading it on
// first use. Unsaved edits live until saveprofile or logout.
func (a *App) profileEditor(ctx context.Context) (*services.ProfileEditor, error) {
	a.mu.Lock()
	ed := a.editor
	a.mu.Unlock()
	if ed != nil {
		return ed, nil
	}

	ed, err := a.profileService.Edit(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.editor = ed
	a.mu.Unlock()
	return ed, nil
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}

	d := ed.Details()
	a.printf("%s (@%s) %s\n", d.Name, d.Username, d.Email)
	if d.Bio != "" {
		a.println(d.Bio)
	}
	if img := ed.ProfileImage(); img != "" {
		a.printf("Avatar: %s\n", img)
	}
	if tags := ed.Tags(); len(tags) > 0 {
		a.printf("Tags: %s\n", strings.Join(tags, ", "))
	}
	a.printPlan(ed.Plan())

	for _, k := range []entitlement.Kind{entitlement.ShortLinks, entitlement.LongLinks} {
		a.printList(k.String(), ed.Links(k), ed.Hidden(k), a.resolver.QuotaFor(ed.Plan(), k))
		a.printFull(ed, k)
	}
	k := entitlement.DesignImages
	a.printList(k.String(), ed.DesignImages(), ed.Hidden(k), a.resolver.QuotaFor(ed.Plan(), k))
	a.printFull(ed, k)
	return nil
}

func (a *App) printFull(ed *services.ProfileEditor, k entitlement.Kind) {
	if !ed.CanAdd(k) {
		a.printf("  %s are full; remove one or upgrade to add more\n", k)
	}
}

func (a *App) printPlan(plan *models.Plan) {
	name := entitlement.TierBasic.String()
	if plan != nil && plan.Name != "" {
		name = plan.Name
	}
	if a.resolver.IsExpired(plan) {
		a.printf("Plan: %s (expired, renew to lift the %d item limit)\n", name, entitlement.ExpiredFloor)
		return
	}
	a.printf("Plan: %s (%d days left)\n", name, a.resolver.RemainingDays(plan))
}

func (a *App) printList(title string, items []string, hidden, quota int) {
	a.printf("%s (%d/%d):\n", title, len(items)+hidden, quota)
	for i, it := range items {
		a.printf("  %d. %s\n", i+1, it)
	}
	if hidden > 0 {
		a.printf("  ... %d more hidden until the plan is renewed\n", hidden)
	}
}

func (a *App) EditProfile(ctx context.Context, _ []string) error {
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}

	d := ed.Details()
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Name [" + d.Name + "]", &d.Name},
		{"Username [" + d.Username + "]", &d.Username},
		{"Email [" + d.Email + "]", &d.Email},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}
	bio, err := GetMultiline(a.reader, "Bio (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if bio != "" {
		d.Bio = bio
	}

	if err := ed.SetDetails(d); err != nil {
		return a.fail(err, "Invalid profile")
	}
	a.println("Updated; run saveprofile to keep the changes.")
	return nil
}

func (a *App) AddLink(ctx context.Context, args []string) error {
	kind, ok := parseKind(args[0])
	if !ok {
		a.println("Usage: addlink <short|long> <url>")
		return nil
	}
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	if err := ed.AddLink(kind, args[1]); err != nil {
		return a.fail(err, "Failed to add link")
	}
	a.println("Link added; run saveprofile to keep the changes.")
	return nil
}

func (a *App) RemoveLink(ctx context.Context, args []string) error {
	kind, ok := parseKind(args[0])
	i, okIdx := parseIndex(args[1])
	if !ok || !okIdx {
		a.println("Usage: rmlink <short|long> <n>")
		return nil
	}
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	if err := ed.RemoveLink(kind, i); err != nil {
		return a.fail(err, "Failed to remove link")
	}
	a.println("Link removed; run saveprofile to keep the changes.")
	return nil
}

// loadImage reads an image from disk, refusing files over the upload limit
// without reading them.
func (a *App) loadImage(path string) ([]byte, error) {
	info, err := statFile(path)
	if err == nil && info.Size() > services.MaxDesignImage {
		return nil, a.fail(services.ErrImageTooLarge, "Image too large")
	}
	var data []byte
	if err == nil {
		data, err = readFile(path)
	}
	if err != nil {
		a.printf("Cannot read %s: %v\n", path, err)
		return nil, err
	}
	return data, nil
}

func (a *App) AddImage(ctx context.Context, args []string) error {
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	if err := ed.CheckAdd(entitlement.DesignImages); err != nil {
		return a.fail(err, "Failed to add image")
	}
	data, err := a.loadImage(args[0])
	if err != nil {
		return err
	}
	if err := ed.AddDesignImage(filepath.Base(args[0]), data); err != nil {
		return a.fail(err, "Failed to add image")
	}
	a.println("Image added; run saveprofile to upload it.")
	return nil
}

func (a *App) RemoveImage(ctx context.Context, args []string) error {
	i, ok := parseIndex(args[0])
	if !ok {
		a.println("Usage: rmimage <n>")
		return nil
	}
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	if err := ed.RemoveDesignImage(i); err != nil {
		return a.fail(err, "Failed to remove image")
	}
	a.println("Image removed; run saveprofile to keep the changes.")
	return nil
}

func (a *App) SetAvatar(ctx context.Context, args []string) error {
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	data, err := a.loadImage(args[0])
	if err != nil {
		return err
	}
	if err := ed.SetProfileImage(filepath.Base(args[0]), data); err != nil {
		return a.fail(err, "Failed to set profile image")
	}
	a.println("Profile image set; run saveprofile to upload it.")
	return nil
}

func (a *App) RemoveAvatar(ctx context.Context, _ []string) error {
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	ed.RemoveProfileImage()
	a.println("Profile image removed; run saveprofile to keep the changes.")
	return nil
}

// SetTags replaces the profile tags. Tags may be separated by spaces or
// commas; no arguments clears them.
func (a *App) SetTags(ctx context.Context, args []string) error {
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	var tags []string
	for _, arg := range args {
		tags = append(tags, strings.Split(arg, ",")...)
	}
	ed.SetTags(tags)
	if t := ed.Tags(); len(t) > 0 {
		a.printf("Tags: %s; run saveprofile to keep the changes.\n", strings.Join(t, ", "))
	} else {
		a.println("Tags cleared; run saveprofile to keep the changes.")
	}
	return nil
}

func (a *App) SaveProfile(ctx context.Context, _ []string) error {
	ed, err := a.profileEditor(ctx)
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	if err := ed.Save(ctx); err != nil {
		return a.fail(err, "Failed to save profile")
	}
	a.println("Profile saved")
	return nil
}

func (a *App) Public(ctx context.Context, args []string) error {
	p, err := a.profileService.PublicView(ctx, args[0])
	if err != nil {
		return a.fail(err, "Failed to load profile")
	}
	a.printf("%s (@%s)\n", p.Name, p.Username)
	if p.Bio != "" {
		a.println(p.Bio)
	}
	if len(p.Tags) > 0 {
		a.printf("Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	for _, l := range []struct {
		title string
		items []string
	}{
		{entitlement.ShortLinks.String(), p.ShortLinks},
		{entitlement.LongLinks.String(), p.LongLinks},
		{entitlement.DesignImages.String(), p.DesignImages},
	} {
		if len(l.items) == 0 {
			continue
		}
		a.println(l.title + ":")
		for _, it := range l.items {
			a.println("  " + it)
		}
	}
	return nil
}

func (a *App) Users(ctx context.Context, _ []string) error {
	users, err := a.profileService.Directory(ctx)
	if err != nil {
		return a.fail(err, "Failed to load users")
	}
	for _, u := range users {
		a.printf("@%-20s %s\n", u.Username, u.Name)
	}
	return nil
}
