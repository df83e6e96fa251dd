package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Content is the store of the single portfolio document.
type Content struct {
	repo repository.PortfolioRepository
	now  func() time.Time
}

func NewContent(repo repository.PortfolioRepository) *Content {
	return &Content{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the portfolio, creating it with the built-in defaults on first
// access.
func (c *Content) Get(ctx context.Context) (*models.Portfolio, error) {
	p, err := c.repo.GetOrCreate(ctx, func() models.Portfolio {
		return models.DefaultPortfolio(c.now())
	})
	if err != nil {
		return nil, err
	}
	if p.Footer.Description == "" {
		// Older documents predate the footer description.
		p.Footer.Description = models.DefaultFooterDescription
		if p.Footer.AdditionalLinks == nil {
			p.Footer.AdditionalLinks = []models.FooterLink{}
		}
		return c.repo.UpdateSection(ctx, models.SectionFooter, p)
	}
	return p, nil
}

func validateSection(section models.Section, p *models.Portfolio) error {
	var required [][2]string
	switch section {
	case models.SectionHero:
		required = [][2]string{
			{"hero.title", p.Hero.Title},
			{"hero.subtitle", p.Hero.Subtitle},
			{"hero.description", p.Hero.Description},
		}
	case models.SectionAbout:
		required = [][2]string{
			{"about.title", p.About.Title},
			{"about.subtitle", p.About.Subtitle},
			{"about.description", p.About.Description},
		}
		for i := range p.About.Skills {
			if err := validateSkill(&p.About.Skills[i]); err != nil {
				return err
			}
		}
	case models.SectionProjects:
		required = [][2]string{
			{"projects.title", p.Projects.Title},
			{"projects.subtitle", p.Projects.Subtitle},
		}
		for i := range p.Projects.Items {
			if err := validateProject(&p.Projects.Items[i]); err != nil {
				return err
			}
		}
	case models.SectionContact:
		required = [][2]string{
			{"contact.title", p.Contact.Title},
			{"contact.subtitle", p.Contact.Subtitle},
			{"contact.description", p.Contact.Description},
		}
		for i := range p.Contact.ContactInfo {
			if err := validateContactInfo(&p.Contact.ContactInfo[i]); err != nil {
				return err
			}
		}
	case models.SectionFooter:
	default:
		return invalid("section", "unknown section %q", section)
	}
	for _, f := range required {
		if err := requireField(f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

// mergeSection copies section s from in onto next. Embedded lists missing from
// in (nil) keep their current value.
func mergeSection(next *models.Portfolio, s models.Section, in *models.Portfolio) {
	switch s {
	case models.SectionHero:
		next.Hero = in.Hero
	case models.SectionAbout:
		skills := next.About.Skills
		next.About = in.About
		if in.About.Skills == nil {
			next.About.Skills = skills
		}
		for i := range next.About.Skills {
			if next.About.Skills[i].ID.IsZero() {
				next.About.Skills[i].ID = bson.NewObjectID()
			}
		}
	case models.SectionProjects:
		items := next.Projects.Items
		next.Projects = in.Projects
		if in.Projects.Items == nil {
			next.Projects.Items = items
		}
		for i := range next.Projects.Items {
			if next.Projects.Items[i].ID.IsZero() {
				next.Projects.Items[i].ID = bson.NewObjectID()
			}
		}
	case models.SectionContact:
		info := next.Contact.ContactInfo
		next.Contact = in.Contact
		if in.Contact.ContactInfo == nil {
			next.Contact.ContactInfo = info
		}
		for i := range next.Contact.ContactInfo {
			if next.Contact.ContactInfo[i].ID.IsZero() {
				next.Contact.ContactInfo[i].ID = bson.NewObjectID()
			}
		}
	case models.SectionFooter:
		next.Footer = in.Footer
		if next.Footer.AdditionalLinks == nil {
			next.Footer.AdditionalLinks = []models.FooterLink{}
		}
	}
}

// ReplaceSection replaces one section wholesale with the matching section of in.
func (c *Content) ReplaceSection(ctx context.Context, section models.Section, in *models.Portfolio) (*models.Portfolio, error) {
	if !section.Valid() {
		return nil, invalid("section", "unknown section %q", section)
	}
	if err := validateSection(section, in); err != nil {
		return nil, err
	}
	current, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	mergeSection(next, section, in)
	return c.repo.UpdateSection(ctx, section, next)
}

// ReplaceSections replaces every listed section in one write.
func (c *Content) ReplaceSections(ctx context.Context, sections []models.Section, in *models.Portfolio) (*models.Portfolio, error) {
	if len(sections) == 0 {
		return nil, invalid("", "no sections provided")
	}
	for _, s := range sections {
		if !s.Valid() {
			return nil, invalid("section", "unknown section %q", s)
		}
		if err := validateSection(s, in); err != nil {
			return nil, err
		}
	}
	current, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	next := current.Clone()
	for _, s := range sections {
		mergeSection(next, s, in)
	}
	return c.repo.Replace(ctx, next)
}

// Import overwrites the whole portfolio, used when restoring an export.
func (c *Content) Import(ctx context.Context, in *models.Portfolio) (*models.Portfolio, error) {
	all := []models.Section{
		models.SectionHero, models.SectionAbout, models.SectionProjects,
		models.SectionContact, models.SectionFooter,
	}
	return c.ReplaceSections(ctx, all, in)
}

// ItemRef addresses an element of an embedded list either by its stable id or,
// for legacy clients, by its position. Positions shift under concurrent edits.
type ItemRef struct {
	ID      bson.ObjectID
	Index   int
	ByIndex bool
}

func ParseItemRef(raw string) (ItemRef, error) {
	raw = strings.TrimSpace(raw)
	if id, err := bson.ObjectIDFromHex(raw); err == nil {
		return ItemRef{ID: id}, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return ItemRef{Index: n, ByIndex: true}, nil
	}
	return ItemRef{}, invalid("id", "invalid item reference %q", raw)
}

func itemIDs(p *models.Portfolio, coll models.Collection) []bson.ObjectID {
	var ids []bson.ObjectID
	switch coll {
	case models.CollectionProjects:
		for _, it := range p.Projects.Items {
			ids = append(ids, it.ID)
		}
	case models.CollectionSkills:
		for _, it := range p.About.Skills {
			ids = append(ids, it.ID)
		}
	case models.CollectionContactInfo:
		for _, it := range p.Contact.ContactInfo {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func collectionEntity(coll models.Collection) string {
	switch coll {
	case models.CollectionProjects:
		return "project"
	case models.CollectionSkills:
		return "skill"
	case models.CollectionContactInfo:
		return "contact info"
	}
	return string(coll)
}

// resolve turns ref into an element id present in the current document.
func (c *Content) resolve(ctx context.Context, coll models.Collection, ref ItemRef) (*models.Portfolio, int, error) {
	p, err := c.Get(ctx)
	if err != nil {
		return nil, -1, err
	}
	ids := itemIDs(p, coll)
	if ref.ByIndex {
		if ref.Index < 0 || ref.Index >= len(ids) {
			return nil, -1, notFound(collectionEntity(coll))
		}
		return p, ref.Index, nil
	}
	for i, id := range ids {
		if id == ref.ID {
			return p, i, nil
		}
	}
	return nil, -1, notFound(collectionEntity(coll))
}

func (c *Content) mapMissing(coll models.Collection, p *models.Portfolio, err error) (*models.Portfolio, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(collectionEntity(coll))
	}
	return p, err
}

// DeleteItem removes one element of an embedded list.
func (c *Content) DeleteItem(ctx context.Context, coll models.Collection, ref ItemRef) (*models.Portfolio, error) {
	p, idx, err := c.resolve(ctx, coll, ref)
	if err != nil {
		return nil, err
	}
	p, err = c.repo.PullItem(ctx, coll, itemIDs(p, coll)[idx])
	return c.mapMissing(coll, p, err)
}

type ProjectInput struct {
	Title        string
	Description  string
	Technologies []string
	FrontendURL  string
	BackendURL   string
	LiveURL      string
	Image        string
	Featured     bool
	Order        *int
}

// ProjectPatch merges onto an existing project; nil fields are kept.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Technologies *[]string
	FrontendURL  *string
	BackendURL   *string
	LiveURL      *string
	Image        *string
	Featured     *bool
	Order        *int
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validateProject(p *models.Project) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Technologies = cleanList(p.Technologies)
	if err := requireField("title", p.Title); err != nil {
		return err
	}
	return requireField("description", p.Description)
}

// AddProject appends a project. Order defaults to the current list length and
// is never re-sequenced afterwards.
func (c *Content) AddProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	project := models.Project{
		ID:           bson.NewObjectID(),
		Title:        in.Title,
		Description:  in.Description,
		Technologies: in.Technologies,
		FrontendURL:  strings.TrimSpace(in.FrontendURL),
		BackendURL:   strings.TrimSpace(in.BackendURL),
		LiveURL:      strings.TrimSpace(in.LiveURL),
		Image:        strings.TrimSpace(in.Image),
		Featured:     in.Featured,
	}
	if err := validateProject(&project); err != nil {
		return nil, err
	}

	p, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	if in.Order != nil {
		project.Order = *in.Order
	} else {
		project.Order = len(p.Projects.Items)
	}

	if _, err := c.repo.PushItem(ctx, models.CollectionProjects, project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Content) UpdateProject(ctx context.Context, ref ItemRef, patch ProjectPatch) (*models.Project, error) {
	p, idx, err := c.resolve(ctx, models.CollectionProjects, ref)
	if err != nil {
		return nil, err
	}
	project := p.Projects.Items[idx]
	if patch.Title != nil {
		project.Title = *patch.Title
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Technologies != nil {
		project.Technologies = *patch.Technologies
	}
	if patch.FrontendURL != nil {
		project.FrontendURL = strings.TrimSpace(*patch.FrontendURL)
	}
	if patch.BackendURL != nil {
		project.BackendURL = strings.TrimSpace(*patch.BackendURL)
	}
	if patch.LiveURL != nil {
		project.LiveURL = strings.TrimSpace(*patch.LiveURL)
	}
	if patch.Image != nil {
		project.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Featured != nil {
		project.Featured = *patch.Featured
	}
	if patch.Order != nil {
		project.Order = *patch.Order
	}
	if err := validateProject(&project); err != nil {
		return nil, err
	}

	if _, err := c.repo.SetItem(ctx, models.CollectionProjects, project.ID, project); err != nil {
		_, err = c.mapMissing(models.CollectionProjects, nil, err)
		return nil, err
	}
	return &project, nil
}

type SkillInput struct {
	Icon        string
	Title       string
	Description string
}

func validateSkill(s *models.Skill) error {
	s.Icon = strings.TrimSpace(s.Icon)
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	if err := requireField("icon", s.Icon); err != nil {
		return err
	}
	if err := requireField("title", s.Title); err != nil {
		return err
	}
	return requireField("description", s.Description)
}

func (c *Content) AddSkill(ctx context.Context, in SkillInput) (*models.Skill, error) {
	skill := models.Skill{ID: bson.NewObjectID(), Icon: in.Icon, Title: in.Title, Description: in.Description}
	if err := validateSkill(&skill); err != nil {
		return nil, err
	}
	if _, err := c.Get(ctx); err != nil {
		return nil, err
	}
	if _, err := c.repo.PushItem(ctx, models.CollectionSkills, skill); err != nil {
		return nil, err
	}
	return &skill, nil
}

func (c *Content) UpdateSkill(ctx context.Context, ref ItemRef, in SkillInput) (*models.Skill, error) {
	p, idx, err := c.resolve(ctx, models.CollectionSkills, ref)
	if err != nil {
		return nil, err
	}
	skill := models.Skill{ID: p.About.Skills[idx].ID, Icon: in.Icon, Title: in.Title, Description: in.Description}
	if err := validateSkill(&skill); err != nil {
		return nil, err
	}
	if _, err := c.repo.SetItem(ctx, models.CollectionSkills, skill.ID, skill); err != nil {
		_, err = c.mapMissing(models.CollectionSkills, nil, err)
		return nil, err
	}
	return &skill, nil
}

type ContactInfoInput struct {
	Icon  string
	Title string
	Value string
	Href  string
}

func validateContactInfo(ci *models.ContactInfo) error {
	ci.Icon = strings.TrimSpace(ci.Icon)
	ci.Title = strings.TrimSpace(ci.Title)
	ci.Value = strings.TrimSpace(ci.Value)
	ci.Href = strings.TrimSpace(ci.Href)
	if ci.Href == "" {
		ci.Href = "#"
	}
	if err := requireField("icon", ci.Icon); err != nil {
		return err
	}
	if err := requireField("title", ci.Title); err != nil {
		return err
	}
	return requireField("value", ci.Value)
}

// AddContactInfo appends an entry and returns the resulting list.
func (c *Content) AddContactInfo(ctx context.Context, in ContactInfoInput) ([]models.ContactInfo, error) {
	ci := models.ContactInfo{ID: bson.NewObjectID(), Icon: in.Icon, Title: in.Title, Value: in.Value, Href: in.Href}
	if err := validateContactInfo(&ci); err != nil {
		return nil, err
	}
	if _, err := c.Get(ctx); err != nil {
		return nil, err
	}
	p, err := c.repo.PushItem(ctx, models.CollectionContactInfo, ci)
	if err != nil {
		return nil, err
	}
	return p.Contact.ContactInfo, nil
}

// UpdateContactInfo replaces an entry and returns the resulting list.
func (c *Content) UpdateContactInfo(ctx context.Context, ref ItemRef, in ContactInfoInput) ([]models.ContactInfo, error) {
	p, idx, err := c.resolve(ctx, models.CollectionContactInfo, ref)
	if err != nil {
		return nil, err
	}
	ci := models.ContactInfo{ID: p.Contact.ContactInfo[idx].ID, Icon: in.Icon, Title: in.Title, Value: in.Value, Href: in.Href}
	if err := validateContactInfo(&ci); err != nil {
		return nil, err
	}
	p, err = c.repo.SetItem(ctx, models.CollectionContactInfo, ci.ID, ci)
	if p, err = c.mapMissing(models.CollectionContactInfo, p, err); err != nil {
		return nil, err
	}
	return p.Contact.ContactInfo, nil
}
