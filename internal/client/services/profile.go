package services

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/logging"
)

// MaxDesignImage is the largest design image accepted for upload.
const MaxDesignImage = 1 << 20

type ProfileService interface {
	// Edit loads the caller's profile into an editor.
	Edit(ctx context.Context) (*ProfileEditor, error)
	// PublicView returns someone's profile as visitors see it.
	PublicView(ctx context.Context, username string) (*models.Profile, error)
	Directory(ctx context.Context) ([]models.User, error)
}

type profileService struct {
	client   client.Client
	sessions Sessions
	resolver *entitlement.Resolver
	log      logging.Logger
}

func NewProfileService(c client.Client, sessions Sessions, r *entitlement.Resolver, log logging.Logger) ProfileService {
	if log == nil {
		log = logging.Nop()
	}
	return &profileService{client: c, sessions: sessions, resolver: r, log: log.With("component", "profile")}
}

func (s *profileService) Edit(ctx context.Context) (*ProfileEditor, error) {
	if !s.sessions.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	p, err := s.client.Profile(ctx)
	if err != nil {
		return nil, guard(ctx, s.sessions, err)
	}
	return newEditor(s, p), nil
}

func (s *profileService) PublicView(ctx context.Context, username string) (*models.Profile, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	p, err := s.client.PublicProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	p.ShortLinks = entitlement.Visible(s.resolver, p.Plan, p.ShortLinks)
	p.LongLinks = entitlement.Visible(s.resolver, p.Plan, p.LongLinks)
	p.DesignImages = entitlement.Visible(s.resolver, p.Plan, p.DesignImages)
	return p, nil
}

func (s *profileService) Directory(ctx context.Context) ([]models.User, error) {
	return s.client.AllUsers(ctx)
}

// Details are the free-form profile fields.
type Details struct {
	Name     string
	Username string
	Email    string
	Bio      string
}

// ProfileEditor holds unsaved profile changes. Additions to bounded
// collections are checked against the profile's plan at the moment they are
// made. Stored items beyond what the plan shows are kept on save.
//
// A ProfileEditor is not safe for concurrent use.
type ProfileEditor struct {
	svc *profileService

	profile    models.Profile
	uploads    []models.Upload
	avatar     *models.Upload
	dropAvatar bool
}

func newEditor(svc *profileService, p *models.Profile) *ProfileEditor {
	e := &ProfileEditor{svc: svc}
	e.reset(p)
	return e
}

func (e *ProfileEditor) reset(p *models.Profile) {
	e.profile = *p
	e.profile.User = *p.User.Clone()
	e.profile.Tags = slices.Clone(p.Tags)
	e.profile.ShortLinks = slices.Clone(p.ShortLinks)
	e.profile.LongLinks = slices.Clone(p.LongLinks)
	e.profile.DesignImages = slices.Clone(p.DesignImages)
	e.uploads = nil
	e.avatar = nil
	e.dropAvatar = false
}

// Plan is the plan the editor enforces: the one on the loaded profile, or
// the session user's when the profile came without one.
func (e *ProfileEditor) Plan() *models.Plan {
	if e.profile.Plan != nil {
		return e.profile.Plan
	}
	return e.svc.resolver.CurrentPlan()
}

func (e *ProfileEditor) count(kind entitlement.Kind) int {
	if kind == entitlement.DesignImages {
		return len(e.profile.DesignImages) + len(e.uploads)
	}
	if l := e.links(kind); l != nil {
		return len(*l)
	}
	return 0
}

// CanAdd reports whether one more item of kind fits the plan right now.
func (e *ProfileEditor) CanAdd(kind entitlement.Kind) bool {
	if e.profile.Plan == nil {
		return e.svc.resolver.CanAddCurrent(kind, e.count(kind))
	}
	return e.svc.resolver.CanAdd(e.profile.Plan, kind, e.count(kind))
}

// CheckAdd is CanAdd with the quota error the user should see.
func (e *ProfileEditor) CheckAdd(kind entitlement.Kind) error {
	if e.profile.Plan == nil {
		return e.svc.resolver.CheckCurrent(kind, e.count(kind))
	}
	return e.svc.resolver.Check(e.profile.Plan, kind, e.count(kind))
}

func (e *ProfileEditor) Details() Details {
	return Details{Name: e.profile.Name, Username: e.profile.Username, Email: e.profile.Email, Bio: e.profile.Bio}
}

func (e *ProfileEditor) SetDetails(d Details) error {
	if err := validateUsername(d.Username); err != nil {
		return err
	}
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "Name is required")
	}
	e.profile.Name = strings.TrimSpace(d.Name)
	e.profile.Username = d.Username
	e.profile.Email = strings.TrimSpace(d.Email)
	e.profile.Bio = d.Bio
	return nil
}

func (e *ProfileEditor) Tags() []string { return slices.Clone(e.profile.Tags) }

// SetTags replaces the tags, dropping blanks and repeats.
func (e *ProfileEditor) SetTags(tags []string) {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.ContainsFunc(out, func(o string) bool { return strings.EqualFold(o, t) }) {
			continue
		}
		out = append(out, t)
	}
	e.profile.Tags = out
}

func (e *ProfileEditor) links(kind entitlement.Kind) *[]string {
	switch kind {
	case entitlement.ShortLinks:
		return &e.profile.ShortLinks
	case entitlement.LongLinks:
		return &e.profile.LongLinks
	default:
		return nil
	}
}

// Links returns the links of kind the plan currently shows.
func (e *ProfileEditor) Links(kind entitlement.Kind) []string {
	l := e.links(kind)
	if l == nil {
		return nil
	}
	return slices.Clone(entitlement.Visible(e.svc.resolver, e.Plan(), *l))
}

// Hidden is how many stored items of kind the plan does not show.
func (e *ProfileEditor) Hidden(kind entitlement.Kind) int {
	if kind == entitlement.DesignImages {
		return len(e.profile.DesignImages) + len(e.uploads) - len(e.DesignImages())
	}
	l := e.links(kind)
	if l == nil {
		return 0
	}
	return len(*l) - len(entitlement.Visible(e.svc.resolver, e.Plan(), *l))
}

func (e *ProfileEditor) AddLink(kind entitlement.Kind, link string) error {
	l := e.links(kind)
	if l == nil {
		return invalid("kind", "Links are either short or long")
	}
	if err := validateLink(link); err != nil {
		return err
	}
	if err := e.CheckAdd(kind); err != nil {
		return err
	}
	*l = append(*l, strings.TrimSpace(link))
	return nil
}

// RemoveLink drops the link at index i of Links(kind).
func (e *ProfileEditor) RemoveLink(kind entitlement.Kind, i int) error {
	l := e.links(kind)
	if l == nil {
		return invalid("kind", "Links are either short or long")
	}
	if i < 0 || i >= len(entitlement.Visible(e.svc.resolver, e.Plan(), *l)) {
		return invalid("index", "No such link")
	}
	*l = slices.Delete(*l, i, i+1)
	return nil
}

// DesignImages lists stored image URLs followed by pending upload names,
// clipped to what the plan shows.
func (e *ProfileEditor) DesignImages() []string {
	all := slices.Clone(e.profile.DesignImages)
	for _, u := range e.uploads {
		all = append(all, u.Name)
	}
	return entitlement.Visible(e.svc.resolver, e.Plan(), all)
}

func (e *ProfileEditor) AddDesignImage(name string, data []byte) error {
	if len(data) == 0 {
		return invalid("image", "Image is empty")
	}
	if len(data) > MaxDesignImage {
		return ErrImageTooLarge
	}
	if err := e.CheckAdd(entitlement.DesignImages); err != nil {
		return err
	}
	e.uploads = append(e.uploads, models.Upload{Name: name, Data: data})
	return nil
}

// RemoveDesignImage drops the image at index i of DesignImages.
func (e *ProfileEditor) RemoveDesignImage(i int) error {
	if i < 0 || i >= len(e.DesignImages()) {
		return invalid("index", "No such image")
	}
	if i < len(e.profile.DesignImages) {
		e.profile.DesignImages = slices.Delete(e.profile.DesignImages, i, i+1)
		return nil
	}
	i -= len(e.profile.DesignImages)
	e.uploads = slices.Delete(e.uploads, i, i+1)
	return nil
}

// ProfileImage is the pending upload name, or the stored image URL.
func (e *ProfileEditor) ProfileImage() string {
	switch {
	case e.avatar != nil:
		return e.avatar.Name
	case e.dropAvatar:
		return ""
	}
	return e.profile.ProfileImage
}

func (e *ProfileEditor) SetProfileImage(name string, data []byte) error {
	if len(data) == 0 {
		return invalid("image", "Image is empty")
	}
	if len(data) > MaxDesignImage {
		return ErrImageTooLarge
	}
	e.avatar = &models.Upload{Name: name, Data: data}
	e.dropAvatar = false
	return nil
}

func (e *ProfileEditor) RemoveProfileImage() {
	e.avatar = nil
	e.dropAvatar = true
}

// Save sends the edited profile and reloads the editor from the response.
func (e *ProfileEditor) Save(ctx context.Context) error {
	p := e.profile
	upd := models.ProfileUpdate{
		Name:                 p.Name,
		Username:             p.Username,
		Email:                p.Email,
		Bio:                  p.Bio,
		Tags:                 p.Tags,
		ShortLinks:           p.ShortLinks,
		LongLinks:            p.LongLinks,
		ExistingDesignImages: p.DesignImages,
		NewDesignImages:      e.uploads,
		ProfileImage:         e.avatar,
		RemoveProfileImage:   e.dropAvatar,
	}

	saved, err := e.svc.client.UpdateProfile(ctx, upd)
	if err != nil {
		return guard(ctx, e.svc.sessions, err)
	}
	e.svc.log.Info(ctx, "profile saved", "user", saved.Username, "uploads", len(upd.NewDesignImages))
	e.reset(saved)
	return nil
}
